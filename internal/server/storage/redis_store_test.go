package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewRedisStore(client), mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	roomData := &RoomData{
		Code:   "ABC234",
		Status: StatusPlaying,
		Players: []PlayerData{
			{Identity: "u1", Name: "Aman", Seat: 0, Connected: true},
			{Identity: "u2", Name: "Bala", Seat: 1, Connected: false},
		},
		LockedIdentities: []string{"u1", "u2", "u3", "u4"},
		GameState:        json.RawMessage(`{"phase":"playing"}`),
		CreatedAt:        time.Now().Unix(),
		UpdatedAt:        time.Now().Unix(),
	}

	// Save
	err := store.SaveRoom(ctx, roomData.Code, roomData)
	assert.NoError(t, err)

	// Load
	loaded, err := store.LoadRoom(ctx, roomData.Code)
	assert.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, roomData.Code, loaded.Code)
	assert.Equal(t, StatusPlaying, loaded.Status)
	assert.Equal(t, roomData.Players, loaded.Players)
	assert.Equal(t, roomData.LockedIdentities, loaded.LockedIdentities)
	assert.JSONEq(t, string(roomData.GameState), string(loaded.GameState))

	// Delete
	err = store.DeleteRoom(ctx, roomData.Code)
	assert.NoError(t, err)

	loaded, err = store.LoadRoom(ctx, roomData.Code)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_LoadMissingRoomIsNil(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)

	loaded, err := store.LoadRoom(context.Background(), "NOPE99")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_GetAllRoomCodes(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for _, code := range []string{"AAAA22", "BBBB33"} {
		err := store.SaveRoom(ctx, code, &RoomData{Code: code, Status: StatusWaiting})
		require.NoError(t, err)
	}

	codes, err := store.GetAllRoomCodes(ctx)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAAA22", "BBBB33"}, codes)
}

func TestRedisStore_RoomHistory(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRoomHistory(ctx, "u1", "OLD111"))
	require.NoError(t, store.AppendRoomHistory(ctx, "u1", "NEW222"))

	rooms, err := store.GetRoomHistory(ctx, "u1")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"OLD111", "NEW222"}, rooms)

	// 其他身份没有历史
	rooms, err = store.GetRoomHistory(ctx, "u2")
	assert.NoError(t, err)
	assert.Empty(t, rooms)
}
