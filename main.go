package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	importcmd "fjacquet/expense-ledger/cmd/import"
	"fjacquet/expense-ledger/cmd/label"
	"fjacquet/expense-ledger/cmd/root"
	"fjacquet/expense-ledger/cmd/run"
	"fjacquet/expense-ledger/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(label.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(run.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
