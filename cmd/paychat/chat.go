package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"payments-chat-backend/internal/common/logger"
	"payments-chat-backend/internal/common/validation"
	"payments-chat-backend/internal/features/transfer/models"
	transferService "payments-chat-backend/internal/features/transfer/service"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive transfer conversation",
		Long: `Reads commands such as "transfira R$50 para maria" from stdin.

While a transfer waits for a payment method, answer with "/method PIX"
(or POS, LINK, CARD). Answer the receipt prompt with "sim" or "não".
"/quit" ends the session.`,
		RunE: runChat,
	}

	cmd.Flags().Int64P("user", "u", 0, "Paying user id")
	cmd.Flags().StringP("out", "o", ".", "Directory receipts are written to")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	userID, err := userFlag(cmd)
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	workerCtx, cancelWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		d.worker.Start(workerCtx)
	}()
	defer func() {
		cancelWorker()
		<-workerDone
	}()

	conv := transferService.NewConversation(userID, d.resolver, d.dispatcher, d.receipts, logger.Component("conversation"))

	out := cmd.OutOrStdout()
	printMessages(out, conv.Transcript())

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		reply, quit := handleLine(ctx, conv, line)
		if quit {
			return nil
		}
		if reply == nil {
			continue
		}

		// The user's own line is already on screen.
		printMessages(out, agentOnly(reply.Messages))
		if _, ok := reply.State.(transferService.AwaitingMethod); ok {
			printMethods(out)
		}
		if reply.Document != nil {
			path := filepath.Join(outDir, reply.Document.Filename)
			if err := os.WriteFile(path, reply.Document.Data, 0o644); err != nil {
				logger.Error().Err(err).Str("path", path).Msg("failed to write receipt")
				continue
			}
			fmt.Fprintf(out, "  receipt saved to %s\n", path)
		}
	}
}

func handleLine(ctx context.Context, conv *transferService.Conversation, line string) (*transferService.Reply, bool) {
	switch {
	case line == "":
		return nil, false
	case line == "/quit" || line == "/exit":
		return nil, true
	case strings.HasPrefix(line, "/method"):
		method := strings.TrimSpace(strings.TrimPrefix(line, "/method"))
		if err := validation.ValidateMethodName(method); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, false
		}
		reply := conv.SelectMethod(ctx, method)
		return &reply, false
	}

	if err := validation.ValidateChatMessage(line); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, false
	}
	reply := conv.Submit(ctx, line)
	return &reply, false
}

func agentOnly(messages []models.Message) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == models.RoleAgent {
			out = append(out, m)
		}
	}
	return out
}

func printMessages(w io.Writer, messages []models.Message) {
	for _, m := range messages {
		fmt.Fprintf(w, "[%s] %s\n", m.At.Format("15:04"), m.Content)
	}
}

func printMethods(w io.Writer) {
	labels := make([]string, 0, len(models.Offered))
	for _, o := range models.Offered {
		labels = append(labels, fmt.Sprintf("%s (/method %s)", o.Label, o.Method))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(labels, " | "))
}
