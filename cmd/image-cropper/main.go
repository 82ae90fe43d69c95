package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/ironsheep/image-cropper-mcp/internal/config"
	"github.com/ironsheep/image-cropper-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := ""

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-cropper %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "crop":
			setupLogging()
			os.Exit(runCrop(os.Args[2:]))
		case "init-config":
			path := config.GetConfigPath()
			if len(os.Args) > 2 {
				path = os.Args[2]
			}
			if err := initConfig(path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("wrote %s\n", path)
			return
		case "--config", "-config":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "--config needs a file path")
				os.Exit(2)
			}
			configPath = os.Args[2]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q, see --help\n", os.Args[1])
			os.Exit(2)
		}
	}

	setupLogging()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if os.Getenv("IMAGE_CROPPER_LOG_LEVEL") == "debug" {
		log.Printf("Image Cropper MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("image-cropper - interactive image cropper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-cropper [--config PATH]     Run the MCP server on stdin/stdout")
	fmt.Println("  image-cropper crop -in FILE ...   Crop a file from the command line (crop -h for flags)")
	fmt.Println("  image-cropper init-config [PATH]  Write the default configuration file")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println("  --config PATH    Configuration file (default " + config.GetConfigPath() + ")")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_CROPPER_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("The server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// setupLogging sends logs to stderr; stdout is for the MCP protocol.
func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

// loadConfig reads path, or the default config path when path is empty. A
// missing default file means built-in defaults; a missing explicit file is an
// error.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// initConfig writes the default configuration to path. An existing file is
// left alone.
func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return config.Default().SaveToFile(path)
}
