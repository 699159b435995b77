package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katakuxiko/agentchat/internal/service"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Route and answer a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	c, err := build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	sess := c.sessions.Create(c.doc)
	defer c.sessions.Delete(sess.ID)

	reply, err := c.chat.Interact(cmd.Context(), sess, service.Input{Text: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, w := range reply.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	fmt.Fprintf(out, "[%s via %s]\n%s\n", reply.Route, reply.Rule, reply.Answer)
	return nil
}
