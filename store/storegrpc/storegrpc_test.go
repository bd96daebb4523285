package storegrpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"convex.dev/convex/store/localstore"
)

func TestStoreGRPC_LocalStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	backing, err := localstore.New(dir)
	if err != nil {
		t.Fatalf("localstore.New: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterStoreServer(srv, &Server{Store: backing})

	go func() {
		_ = srv.Serve(lis)
	}()
	defer srv.Stop()

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	defer cc.Close()

	client := &Client{cc: cc, client: NewStoreClient(cc), Timeout: 2 * time.Second}

	ctx := context.Background()
	payload := []byte("hello storegrpc")
	key, err := client.Put(ctx, payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !key.Defined() {
		t.Fatalf("expected defined key")
	}
	if !client.Has(ctx, key) {
		t.Fatalf("Has: expected true")
	}
	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}
