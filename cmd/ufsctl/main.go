package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sir_venger/ufs_lite/pkg/ufsclient"
)

const usage = `usage:
  ufsctl [-addr URL] upload -store NAME FILE
  ufsctl get URL [OUT]
  ufsctl [-addr URL] rm -store NAME FILE_ID`

func main() {
	addr := flag.String("addr", envOr("UFS_ADDR", "http://localhost:8080"), "ufs base URL")
	quiet := flag.Bool("q", false, "disable progress output")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var opts []ufsclient.Option
	if !*quiet {
		opts = append(opts, ufsclient.WithProgress(os.Stderr))
	}
	cli := ufsclient.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "upload":
		err = upload(ctx, cli, *addr, args)
	case "get":
		err = get(ctx, cli, args)
	case "rm":
		err = remove(ctx, cli, *addr, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func upload(ctx context.Context, cli ufsclient.Client, addr string, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	store := fs.String("store", "uploads", "store name")
	contentType := fs.String("type", "", "content type (detected by extension when empty)")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("upload: exactly one file expected")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	res, err := cli.Upload(ctx, addr, *store, ufsclient.UploadRequest{
		FileName:    filepath.Base(f.Name()),
		ContentType: *contentType,
		Reader:      f,
		Size:        info.Size(),
	})
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(res)
}

func get(ctx context.Context, cli ufsclient.Client, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("get: URL [OUT] expected")
	}

	body, err := cli.Download(ctx, args[0])
	if err != nil {
		return err
	}
	defer body.Close()

	var out io.Writer = os.Stdout
	if len(args) == 2 {
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	_, err = io.Copy(out, body)
	return err
}

func remove(ctx context.Context, cli ufsclient.Client, addr string, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	store := fs.String("store", "uploads", "store name")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("rm: exactly one file id expected")
	}

	return cli.Delete(ctx, addr, *store, fs.Arg(0))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
