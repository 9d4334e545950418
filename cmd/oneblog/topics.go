// ABOUTME: Topics commands for browsing a user's saved trending topics
// ABOUTME: Lists topic history and the most recently searched domains

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/oneblog/internal/config"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/storage"
)

var topicsCmd = &cobra.Command{
	Use:     "topics",
	Aliases: []string{"topic", "t"},
	Short:   "Browse saved trending topics",
}

var topicsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List saved topics, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		domain, _ := cmd.Flags().GetString("domain")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		var topics []*models.Topic
		if domain != "" {
			topics, err = store.ListTopicsByDomain(cmd.Context(), userID, domain)
		} else {
			topics, err = store.ListTopicsByUser(cmd.Context(), userID)
		}
		if err != nil {
			return fmt.Errorf("failed to list topics: %w", err)
		}

		printTopicList(cmd.OutOrStdout(), topics)
		return nil
	},
}

var topicsDomainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Show the most recently searched domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		topics, err := store.ListTopicsByUser(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to list topics: %w", err)
		}

		domains := storage.RecentDomains(topics, storage.MaxRecentDomains)
		if len(domains) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No domains searched yet")
			return nil
		}
		for _, d := range domains {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicsListCmd, topicsDomainsCmd)

	topicsCmd.PersistentFlags().StringP("user", "u", "", "owning user ID")
	_ = topicsCmd.MarkPersistentFlagRequired("user")

	topicsListCmd.Flags().StringP("domain", "d", "", "only topics for this domain")
}

func printTopicList(w io.Writer, topics []*models.Topic) {
	if len(topics) == 0 {
		fmt.Fprintln(w, "No topics found")
		return
	}

	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, topic := range topics {
		fmt.Fprintf(w, "%s %s %s\n",
			cyan(topic.Name),
			faint(fmt.Sprintf("[%s, %s]", topic.SearchVolume, topic.Trend)),
			faint(topic.Domain+" · "+topic.CreatedAt.Format(config.DateFormatShort)),
		)
		if topic.Reason != "" {
			fmt.Fprintf(w, "  %s\n", topic.Reason)
		}
	}
}
