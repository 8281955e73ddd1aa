package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/grimoire/internal/model"
)

const generationTimeout = 2 * time.Minute

func init() {
	forumCmd := &cobra.Command{
		Use:   "forum",
		Short: "Read and write the simulated forum",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List threads, newest first",
		Run:   runForumList,
	}
	listCmd.Flags().StringP("tag", "t", "", "Filter by tag")

	showCmd := &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show a thread with its comments",
		Args:  cobra.ExactArgs(1),
		Run:   runForumShow,
	}

	postCmd := &cobra.Command{
		Use:   "post [content]",
		Short: "Publish a thread as yourself",
		Run:   runForumPost,
	}
	postCmd.Flags().String("title", "", "Thread title (required)")
	postCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	postCmd.MarkFlagRequired("title")

	commentCmd := &cobra.Command{
		Use:   "comment <post-id> [content]",
		Short: "Reply to a thread as yourself",
		Args:  cobra.MinimumNArgs(1),
		Run:   runForumComment,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a batch of threads with seed comments",
		Run:   runForumSimulate,
	}
	simulateCmd.Flags().StringP("tag", "t", "", "Topic of the generated threads")

	repliesCmd := &cobra.Command{
		Use:   "replies <post-id>",
		Short: "Generate new replies on a thread",
		Args:  cobra.ExactArgs(1),
		Run:   runForumReplies,
	}

	asCmd := &cobra.Command{
		Use:   "as <contact-id> [direction]",
		Short: "Have a contact write a thread",
		Args:  cobra.MinimumNArgs(1),
		Run:   runForumAs,
	}

	forumCmd.AddCommand(listCmd, showCmd, postCmd, commentCmd, simulateCmd, repliesCmd, asCmd)
	RootCmd.AddCommand(forumCmd)
}

func runForumList(cmd *cobra.Command, args []string) {
	tag, _ := cmd.Flags().GetString("tag")

	a := mustOpenApp(cmd)
	defer a.Close()

	posts := a.Posts(tag)
	if textFormat() {
		for _, p := range posts {
			fmt.Printf("%s\t%s\t%s\t[%s]\t%d likes, %d comments\n",
				p.ID, p.AuthorName, p.Title, strings.Join(p.Tags, ","), p.Likes, len(p.Comments))
		}
		return
	}
	printJSON(posts)
}

func runForumShow(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	p, err := a.Post(args[0])
	if err != nil {
		exitErr("show post", err)
	}
	if textFormat() {
		printThread(p)
		return
	}
	printJSON(p)
}

func printThread(p model.ForumPost) {
	fmt.Printf("%s\nby %s  #%s\n\n%s\n", p.Title, p.AuthorName, strings.Join(p.Tags, " #"), p.Content)
	for _, c := range p.Comments {
		fmt.Printf("\n  %s: %s\n", c.AuthorName, c.Content)
	}
}

func runForumPost(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	tags, _ := cmd.Flags().GetString("tags")
	content := readContent(args)

	a := mustOpenApp(cmd)
	defer a.Close()

	p, err := a.AddUserPost(cmd.Context(), title, content, tags)
	if err != nil {
		exitErr("post", err)
	}
	printJSON(p)
}

func runForumComment(cmd *cobra.Command, args []string) {
	content := readContent(args[1:])

	a := mustOpenApp(cmd)
	defer a.Close()

	p, err := a.AddComment(cmd.Context(), args[0], content)
	if err != nil {
		exitErr("comment", err)
	}
	printJSON(p)
}

func runForumSimulate(cmd *cobra.Command, args []string) {
	tag, _ := cmd.Flags().GetString("tag")

	a := mustOpenApp(cmd)
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), generationTimeout)
	defer cancel()

	posts, err := a.SimulateThreads(ctx, tag)
	if err != nil {
		exitErr("simulate", err)
	}
	printJSON(posts)
}

func runForumReplies(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), generationTimeout)
	defer cancel()

	comments, err := a.GenerateReplies(ctx, args[0])
	if err != nil {
		exitErr("generate replies", err)
	}
	printJSON(comments)
}

func runForumAs(cmd *cobra.Command, args []string) {
	direction := strings.Join(args[1:], " ")

	a := mustOpenApp(cmd)
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), generationTimeout)
	defer cancel()

	p, err := a.PostAsContact(ctx, args[0], direction)
	if err != nil {
		exitErr("post as contact", err)
	}
	printJSON(p)
}
