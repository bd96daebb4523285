// Command convex-casd runs a Store gRPC daemon in front of a configurable
// storage backend, selected at runtime via --backend.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"convex.dev/convex/store/storegrpc"
	"convex.dev/convex/store/storeregistry"

	_ "convex.dev/convex/store/ipfsstore"
	_ "convex.dev/convex/store/localstore"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Str("component", "convex-casd").Logger()

	fs := flag.NewFlagSet("convex-casd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:8787", "listen address")
	backend := fs.String("backend", "localstore", "store backend name")
	listBackends := fs.Bool("list-backends", false, "list supported backends and exit")

	storeregistry.RegisterFlags(fs, storeregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range storeregistry.List(storeregistry.UsageDaemon) {
			if b.Description == "" {
				fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	backing, closeFn, err := storeregistry.Open(*backend, storeregistry.UsageDaemon)
	if err != nil {
		logger.Error().Err(err).Str("backend", *backend).Msg("failed to open backend")
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}
	logger.Info().Str("backend", *backend).Msg("backend opened")

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		logger.Error().Err(err).Str("listen", *listen).Msg("failed to listen")
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	storegrpc.RegisterStoreServer(s, &storegrpc.Server{Store: backing, Logger: &logger})

	logger.Info().Str("addr", lis.Addr().String()).Str("backend", *backend).Msg("listening")
	if err := s.Serve(lis); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
