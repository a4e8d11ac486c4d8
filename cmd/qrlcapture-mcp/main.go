package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nau-media/qrlcapture/internal/config"
	"github.com/nau-media/qrlcapture/internal/tools"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("qrlcapture-mcp", version)
		os.Exit(0)
	}

	cfg, err := config.LoadFile(config.FileName)
	if err != nil {
		slog.Error("qrlcapture-mcp.config_load_failed", "err", err.Error())
		os.Exit(1)
	}

	srv := tools.NewServer(cfg)

	if err := srv.MCPServer().Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		slog.Error("qrlcapture-mcp.server_failed", "err", err.Error())
		os.Exit(1)
	}
}
