package ipfsstore

import (
	"flag"

	"convex.dev/convex/store"
	"convex.dev/convex/store/storeregistry"
)

var (
	flagBin string
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "ipfs",
		Description: "Local Kubo (ipfs) CLI, raw blocks, CIDv1 sha3-256",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagBin, "ipfs-bin", "", "path to the ipfs binary (for --backend=ipfs, default \"ipfs\")")
		},
		Open: func() (store.Store, func() error, error) {
			return New(Options{Bin: flagBin}), nil, nil
		},
	})
}
