// ABOUTME: Posts commands for inspecting and deleting a user's posts from the terminal
// ABOUTME: Reads storage directly; show renders markdown with glamour

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/config"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/storage"
	"github.com/harper/oneblog/internal/timeutil"
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"post", "p"},
	Short:   "Inspect and manage posts",
	Long:    "List, show and delete the posts of one user directly from storage.",
}

var postsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List a user's posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		statusFlag, _ := cmd.Flags().GetString("status")
		since, _ := cmd.Flags().GetString("since")

		var status *models.PostStatus
		if statusFlag != "" {
			s, err := models.ParsePostStatus(statusFlag)
			if err != nil {
				return err
			}
			status = &s
		}

		var window *timeutil.Window
		if since != "" {
			w, err := timeutil.PeriodWindow(since, time.Now())
			if err != nil {
				return err
			}
			window = &w
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		posts, err := store.ListPostsByUser(cmd.Context(), userID, status)
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}

		printPostList(cmd.OutOrStdout(), filterPosts(posts, window))
		return nil
	},
}

var postsShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show a post rendered as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		raw, _ := cmd.Flags().GetBool("raw")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		post, err := ownedPost(cmd, store, userID, args[0])
		if err != nil {
			return err
		}

		return printPost(cmd.OutOrStdout(), post, raw)
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:     "delete <post-id>",
	Aliases: []string{"rm"},
	Short:   "Permanently delete a post",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		post, err := ownedPost(cmd, store, userID, args[0])
		if err != nil {
			return err
		}
		if err := store.DeletePost(cmd.Context(), post.ID); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", post.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsListCmd, postsShowCmd, postsDeleteCmd)

	postsCmd.PersistentFlags().StringP("user", "u", "", "owning user ID")
	_ = postsCmd.MarkPersistentFlagRequired("user")

	postsListCmd.Flags().StringP("status", "s", "", "filter by status (draft, generating, published)")
	postsListCmd.Flags().String("since", "", "only posts created in this period (today, yesterday, week, month)")
	postsShowCmd.Flags().Bool("raw", false, "print markdown without rendering")
}

// ownedPost loads a post and hides posts that belong to someone else.
func ownedPost(cmd *cobra.Command, store storage.Store, userID, id string) (*models.Post, error) {
	post, err := store.GetPost(cmd.Context(), id)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && post.UserID != userID) {
		return nil, blog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// filterPosts keeps posts created inside window. A nil window keeps everything.
func filterPosts(posts []*models.Post, window *timeutil.Window) []*models.Post {
	if window == nil {
		return posts
	}
	var kept []*models.Post
	for _, p := range posts {
		if window.Contains(p.CreatedAt) {
			kept = append(kept, p)
		}
	}
	return kept
}

func shortID(id string) string {
	if len(id) > config.DisplayIDLength {
		return id[:config.DisplayIDLength]
	}
	return id
}

func statusColor(status models.PostStatus) *color.Color {
	switch status {
	case models.StatusPublished:
		return color.New(color.FgGreen)
	case models.StatusGenerating:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func printPostList(w io.Writer, posts []*models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found")
		return
	}

	faint := color.New(color.Faint).SprintFunc()
	for _, post := range posts {
		status := statusColor(post.Status).Sprintf("%-10s", post.Status)
		fmt.Fprintf(w, "%s %s %s %s\n",
			faint(shortID(post.ID)),
			status,
			post.Title,
			faint(fmt.Sprintf("%s · %d words · %s", post.Domain, post.WordCount, post.CreatedAt.Format(config.DateFormatShort))),
		)
	}
}

func printPost(w io.Writer, post *models.Post, raw bool) error {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(w, bold(post.Title))
	fmt.Fprintf(w, "%s %s\n", faint("Status:"), statusColor(post.Status).Sprint(post.Status))
	fmt.Fprintf(w, "%s %s / %s\n", faint("Domain:"), post.Domain, post.Topic)
	fmt.Fprintf(w, "%s %d\n", faint("Words:"), post.WordCount)
	fmt.Fprintf(w, "%s %s\n", faint("Created:"), post.CreatedAt.Format(config.DateFormatLong))
	fmt.Fprintf(w, "%s %s\n", faint("By:"), post.GeneratedBy)
	fmt.Fprintln(w, faint(strings.Repeat("─", config.SeparatorWidth)))

	if raw {
		fmt.Fprintln(w, post.Content)
		return nil
	}

	rendered, err := glamour.Render(post.Content, "dark")
	if err != nil {
		// Fall back to plain markdown
		fmt.Fprintln(w, post.Content)
		return nil
	}
	fmt.Fprint(w, rendered)
	return nil
}
