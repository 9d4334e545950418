// ABOUTME: Prompt templates for topic discovery and post generation
// ABOUTME: Research and trending prompts assume web search; draft and title do not

package writer

import "fmt"

func trendingPrompt(domain string, limit int) string {
	return fmt.Sprintf(`Find %[2]d trending topics in the "%[1]s" domain that would make great blog posts right now. Use web search to find current trends, popular discussions, and emerging topics.

Return ONLY a JSON array with exactly %[2]d objects, each having:
- "name": the topic title (concise, blog-post-ready)
- "searchVolume": estimated relative search interest ("high", "medium", or "rising")
- "trend": brief trend description (e.g., "Growing 40%% month-over-month")
- "reason": why this topic is trending now (1 sentence)

Return ONLY the JSON array, no markdown fences or other text.`, domain, limit)
}

func researchPrompt(topic, domain string) string {
	return fmt.Sprintf(`Research the topic "%s" in the "%s" domain. Use web search to find:
- Key facts and statistics
- Recent developments
- Expert opinions
- Practical examples

Provide a comprehensive research summary with sources.`, topic, domain)
}

func draftPrompt(research, topic, domain string) string {
	return fmt.Sprintf(`Using this research, write a comprehensive blog post:

Research:
%s

Requirements:
- Topic: "%s"
- Domain: "%s"
- Length: 2000+ words
- Format: Markdown
- Include: engaging introduction, clear headings (##), practical examples, statistics where relevant, actionable conclusion
- Tone: professional but accessible
- Do NOT include a title heading (it will be added separately)

Write the blog post now.`, research, topic, domain)
}

func titlePrompt(topic string) string {
	return fmt.Sprintf(`Generate a single compelling blog post title for this content about "%s". Return ONLY the title text, nothing else.`, topic)
}
