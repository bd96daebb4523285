// Command convex-cas is a one-shot CLI against any registered store.Store
// backend: put a file's bytes, get bytes back by key, or check presence.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"convex.dev/convex/store"
	"convex.dev/convex/store/storeregistry"

	_ "convex.dev/convex/store/ipfsstore"
	_ "convex.dev/convex/store/localstore"
	_ "convex.dev/convex/store/storegrpc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}
	switch args[0] {
	case "put":
		return cmdPut(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "has":
		return cmdHas(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "convex-cas: content-addressed store CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  convex-cas put --backend <name> [backend flags] <file>")
	fmt.Fprintln(w, "  convex-cas get --backend <name> [backend flags] <key>")
	fmt.Fprintln(w, "  convex-cas has --backend <name> [backend flags] <key>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backends: "+fmt.Sprint(storeregistry.Names(storeregistry.UsageCLI)))
}

func openBackend(fs *flag.FlagSet, args []string) (store.Store, func() error, []string, error) {
	backend := fs.String("backend", "localstore", "store backend name")
	storeregistry.RegisterFlags(fs, storeregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	s, closeFn, err := storeregistry.Open(*backend, storeregistry.UsageCLI)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, closeFn, fs.Args(), nil
}

func cmdPut(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	s, closeFn, rest, err := openBackend(fs, args)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}
	if len(rest) != 1 {
		fmt.Fprintln(errOut, "usage: convex-cas put --backend <name> <file>")
		return 2
	}
	b, err := os.ReadFile(rest[0])
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", rest[0], err)
		return 1
	}
	key, err := s.Put(context.Background(), b)
	if err != nil {
		fmt.Fprintf(errOut, "put: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, key.String())
	return 0
}

func cmdGet(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	s, closeFn, rest, err := openBackend(fs, args)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}
	if len(rest) != 1 {
		fmt.Fprintln(errOut, "usage: convex-cas get --backend <name> <key>")
		return 2
	}
	key, err := store.ParseKey(rest[0])
	if err != nil {
		fmt.Fprintf(errOut, "invalid key: %v\n", err)
		return 2
	}
	b, err := s.Get(context.Background(), key)
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdHas(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("has", flag.ContinueOnError)
	fs.SetOutput(errOut)
	s, closeFn, rest, err := openBackend(fs, args)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}
	if len(rest) != 1 {
		fmt.Fprintln(errOut, "usage: convex-cas has --backend <name> <key>")
		return 2
	}
	key, err := store.ParseKey(rest[0])
	if err != nil {
		fmt.Fprintf(errOut, "invalid key: %v\n", err)
		return 2
	}
	if s.Has(context.Background(), key) {
		fmt.Fprintln(out, "true")
		return 0
	}
	fmt.Fprintln(out, "false")
	return 1
}
