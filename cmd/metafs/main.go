// Command metafs mounts an in-memory filesystem with extended
// attribute support. Usage:
//
//	metafs [flags] MOUNTPOINT
//
// The process runs in the foreground until interrupted; all filesystem
// state is discarded at unmount.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"metafs/internal/fs"
	"metafs/internal/logging"
	"metafs/internal/seed"
)

var (
	logger = logging.GetLogger()
)

func main() {
	seedFile := flag.String("seed", "", "JSON file describing extra files and xattrs to pre-populate")
	allowOther := flag.Bool("allow-other", false, "Allow other users to access the mount")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] MOUNTPOINT\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		logger.SetLevel(logging.LevelDebug)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	mountPoint := flag.Arg(0)

	logger.Info("Starting MetaFS...")
	logger.Debug("Mount point: %s", mountPoint)

	uid, gid := fs.CurrentIdentity()
	engine := fs.NewEngine(uid, gid)

	bootstrap := seed.Default()
	if *seedFile != "" {
		loaded, err := seed.Load(*seedFile)
		if err != nil {
			logger.Error("Failed to load seed file: %v", err)
			os.Exit(1)
		}
		bootstrap = loaded
	}
	if err := bootstrap.Apply(engine); err != nil {
		logger.Error("Failed to apply seed: %v", err)
		os.Exit(1)
	}
	logger.Info("Filesystem seeded with %d nodes", engine.NodeCount())

	mfs := fs.New(engine)
	if *allowOther {
		mfs.AllowOther()
	}

	if err := mfs.Mount(mountPoint); err != nil {
		logger.Error("Mount failed: %v", err)
		os.Exit(1)
	}
	defer mfs.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received signal %v, unmounting", sig)
		if err := mfs.Unmount(mountPoint); err != nil {
			logger.Error("Unmount error: %v", err)
		}
	}()

	logger.Info("Filesystem mounted and ready")
	if err := mfs.Serve(); err != nil {
		logger.Error("FUSE server error: %v", err)
		os.Exit(1)
	}
	logger.Info("Clean shutdown complete")
}
