package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-cropper-mcp/internal/config"
	"github.com/ironsheep/image-cropper-mcp/internal/logging"
	"github.com/ironsheep/image-cropper-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv(config.EnvPrefix + "CONFIG")

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("image-cropper-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n", args[i])
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	closer, err := logging.Setup(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		log.Fatalf("Logging error: %v", err)
	}
	defer closer.Close()

	logging.Debugf("Image Cropper MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	server.Version = Version
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	if err := srv.Run(); err != nil {
		logging.Errorf("Server error: %v", err)
		closer.Close()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("image-cropper-mcp - MCP server for sampled decoding, cropping and rotation of images")
	fmt.Println()
	fmt.Println("Usage: image-cropper-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c PATH  Read settings from a YAML file")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_CROPPER_CONFIG=PATH          Config file (same as --config)")
	fmt.Println("  IMAGE_CROPPER_LOG_LEVEL=debug      debug|info|warn|error")
	fmt.Println("  IMAGE_CROPPER_LOG_FILE=PATH        Log to a rotated file instead of stderr")
	fmt.Println("  IMAGE_CROPPER_OUTPUT_FORMAT=png    Default encoding of returned images")
	fmt.Println("  IMAGE_CROPPER_JPEG_QUALITY=90      JPEG quality 1-100")
	fmt.Println("  IMAGE_CROPPER_BACKGROUND=#ffffff   Fill behind transparency for JPEG/BMP")
	fmt.Println("  IMAGE_CROPPER_RESAMPLE_FILTER=box  box|linear|lanczos|nearest|catmullrom")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
