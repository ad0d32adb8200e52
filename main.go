package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"vulkan-sprites/gpu"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called
	// from the main thread.
	runtime.LockOSThread()

	flag.BoolVar(&args.debug, "debug", false, "Enable Vulkan validation layers and debug logging")
	flag.StringVar(&args.shaders, "shaders", "",
		"Directory with the compiled SPIR-V shaders (default: shaders next to the executable, then ./shaders)")
}

var args struct {
	debug   bool
	shaders string
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if args.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gpu.SetLogger(logger)

	shadersDir := args.shaders
	if shadersDir == "" {
		shadersDir = defaultShadersDir()
	}

	app := &App{
		enableValidationLayers: args.debug,
		shadersDir:             shadersDir,
	}
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

// defaultShadersDir prefers the shaders directory next to the executable so
// that the program runs from anywhere once installed with its shaders.
func defaultShadersDir() string {
	exe, err := os.Executable()
	if err != nil {
		return shadersDirName
	}
	return shadersDirFor(exe)
}

const shadersDirName = "shaders"

// shadersDirFor returns the shaders directory beside exe if there is one, or
// the one in the working directory otherwise.
func shadersDirFor(exe string) string {
	dir := filepath.Join(filepath.Dir(exe), shadersDirName)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return shadersDirName
}
