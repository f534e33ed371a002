package rpc

import (
	"context"
	"net/rpc"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/wfunc/snake/models"
	"github.com/wfunc/snake/persistence"
	"github.com/wfunc/snake/services"
)

func TestGameService_GetHighScores(t *testing.T) {
	db := persistence.NewMemory()
	for i, score := range []int{2, 9, 5} {
		db.SaveGameRecord(models.GameRecord{
			ID:      string(rune('a' + i)),
			RoomID:  "room",
			Outcome: "game_over",
			Score:   score,
		})
	}

	srv, err := NewServer("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if err := srv.Register(NewGameService(services.NewScoreService(db))); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	go srv.Start()
	defer srv.Stop()

	client, err := rpc.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	var reply HighScoresReply
	if err := client.Call("GameService.GetHighScores", &HighScoresArgs{Limit: 2}, &reply); err != nil {
		t.Fatalf("GetHighScores failed: %v", err)
	}
	if len(reply.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(reply.Records))
	}
	if reply.Records[0].Score != 9 || reply.Records[1].Score != 5 {
		t.Errorf("unexpected order: %d, %d", reply.Records[0].Score, reply.Records[1].Score)
	}
}

func TestHealthServer_Check(t *testing.T) {
	hs, err := NewHealthServer("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewHealthServer failed: %v", err)
	}
	go hs.Start()
	defer hs.Stop()

	conn, err := grpc.NewClient(hs.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.GetStatus())
	}

	hs.SetServing(false)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %v, want NOT_SERVING", resp.GetStatus())
	}
}
