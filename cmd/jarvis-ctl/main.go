package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"jarvis/internal/ipc"
)

func main() {
	socketPath := cli.StringP("socket", "s", "/tmp/jarvis.sock", "Daemon control socket")
	cli.Parse()

	cmd := ipc.CmdTrigger
	if args := cli.Args(); len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case ipc.CmdTrigger, ipc.CmdConfirm, ipc.CmdShutdown:
	default:
		fmt.Println("usage: jarvis-ctl [trigger|confirm|shutdown]")
		os.Exit(2)
	}

	if err := ipc.SendCommand(*socketPath, cmd); err != nil {
		fmt.Println("jarvis-daemon not running:", err)
		os.Exit(1)
	}
}
