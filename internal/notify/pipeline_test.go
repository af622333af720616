package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/common/config"
	"github.com/crewforge/backoffice/internal/events"
	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/store"
)

func testRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testPipelineStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return store.New(db, events.NewBus(zap.NewNop()), zap.NewNop())
}

func TestRedisQueue_Enqueue(t *testing.T) {
	_, client := testRedis(t)
	q := NewRedisQueue(zap.NewNop(), client, "")

	msg := &Message{UserID: 7, Type: cnst.NotificationTypeInfo, Data: map[string]any{"k": "v"}}
	require.NoError(t, q.Enqueue(context.Background(), msg))

	entries, err := client.XRange(context.Background(), cnst.NotificationStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var got Message
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["message"].(string)), &got))
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, cnst.NotificationTypeInfo, got.Type)
	assert.Equal(t, "v", got.Data["k"])
}

func TestRedisPublisher_Publish(t *testing.T) {
	_, client := testRedis(t)
	p := NewRedisPublisher(zap.NewNop(), client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, UserChannel(7))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	payload := NewPushPayload(&model.Notification{
		ID:        3,
		Type:      cnst.NotificationTypeInfo,
		Payload:   model.JSONMap{"k": "v"},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, p.Publish(ctx, 7, payload))

	select {
	case m := <-sub.Channel():
		var got PushPayload
		require.NoError(t, json.Unmarshal([]byte(m.Payload), &got))
		assert.Equal(t, uint(3), got.ID)
		assert.Equal(t, cnst.NotificationTypeInfo, got.Type)
		assert.Equal(t, "2026-01-02T03:04:05Z", got.CreatedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for push payload")
	}
}

func TestDeliverer_PersistsAndPushes(t *testing.T) {
	_, client := testRedis(t)
	st := testPipelineStore(t)
	ctx := context.Background()

	user := &model.User{Email: "jane@crewforge.io", Password: "secret"}
	_, err := st.CreateUser(ctx, user)
	require.NoError(t, err)

	sub := client.Subscribe(ctx, UserChannel(user.ID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	d := NewDeliverer(zap.NewNop(), st, NewRedisPublisher(zap.NewNop(), client), nil)
	msg := &Message{UserID: user.ID, Type: cnst.NotificationTypeInfo, Data: map[string]any{"text": "hello"}}
	require.NoError(t, d.Deliver(ctx, msg))

	list, err := st.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cnst.NotificationTypeInfo, list[0].Type)
	assert.Equal(t, "hello", list[0].Payload["text"])
	assert.False(t, list[0].Read)

	select {
	case m := <-sub.Channel():
		var got PushPayload
		require.NoError(t, json.Unmarshal([]byte(m.Payload), &got))
		assert.Equal(t, list[0].ID, got.ID)
		assert.Equal(t, list[0].Type, got.Type)
		assert.Equal(t, "hello", got.Data["text"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for push payload")
	}
}

func TestDeliverer_UnknownUserDiscards(t *testing.T) {
	_, client := testRedis(t)
	st := testPipelineStore(t)
	ctx := context.Background()

	d := NewDeliverer(zap.NewNop(), st, NewRedisPublisher(zap.NewNop(), client), nil)
	msg := &Message{UserID: 9999, Type: cnst.NotificationTypeInfo}
	require.NoError(t, d.Deliver(ctx, msg), "unknown users are discarded, not errors")

	var count int64
	require.NoError(t, st.DB().Model(&model.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeliverer_PushFailureDoesNotRollBack(t *testing.T) {
	mr, client := testRedis(t)
	st := testPipelineStore(t)
	ctx := context.Background()

	user := &model.User{Email: "jane@crewforge.io", Password: "secret"}
	_, err := st.CreateUser(ctx, user)
	require.NoError(t, err)

	// kill redis so the push fails after the row has committed
	mr.Close()

	d := NewDeliverer(zap.NewNop(), st, NewRedisPublisher(zap.NewNop(), client), nil)
	msg := &Message{UserID: user.ID, Type: cnst.NotificationTypeInfo}
	require.NoError(t, d.Deliver(ctx, msg))

	list, err := st.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConsumer_EndToEnd(t *testing.T) {
	_, client := testRedis(t)
	st := testPipelineStore(t)
	ctx := context.Background()

	user := &model.User{Email: "jane@crewforge.io", Password: "secret"}
	_, err := st.CreateUser(ctx, user)
	require.NoError(t, err)

	q := NewRedisQueue(zap.NewNop(), client, "")
	msg := &Message{UserID: user.ID, Type: cnst.NotificationTypeTeamWelcome, Data: map[string]any{"teamName": "Crewforge"}}
	require.NoError(t, q.Enqueue(ctx, msg))

	d := NewDeliverer(zap.NewNop(), st, NewRedisPublisher(zap.NewNop(), client), nil)
	c := NewConsumer(zap.NewNop(), client, d, config.ConsumerConfig{Block: 50 * time.Millisecond})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(runCtx)
	}()

	require.Eventually(t, func() bool {
		n, err := st.CountUnread(ctx, user.ID)
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)

	// the delivered entry is acked, nothing stays pending
	require.Eventually(t, func() bool {
		pending, err := client.XPending(ctx, cnst.NotificationStream, cnst.NotificationGroup).Result()
		return err == nil && pending.Count == 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	list, err := st.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cnst.NotificationTypeTeamWelcome, list[0].Type)
	assert.Equal(t, "Crewforge", list[0].Payload["teamName"])
}

func TestConsumer_PoisonMessageAcked(t *testing.T) {
	_, client := testRedis(t)
	st := testPipelineStore(t)
	ctx := context.Background()

	user := &model.User{Email: "jane@crewforge.io", Password: "secret"}
	_, err := st.CreateUser(ctx, user)
	require.NoError(t, err)

	// a poison entry followed by a valid one; the consumer must ack the
	// poison and keep going
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: cnst.NotificationStream,
		Values: map[string]interface{}{"message": "not json"},
	}).Err())
	q := NewRedisQueue(zap.NewNop(), client, "")
	require.NoError(t, q.Enqueue(ctx, &Message{UserID: user.ID, Type: cnst.NotificationTypeInfo}))

	d := NewDeliverer(zap.NewNop(), st, NewRedisPublisher(zap.NewNop(), client), nil)
	c := NewConsumer(zap.NewNop(), client, d, config.ConsumerConfig{Block: 50 * time.Millisecond})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(runCtx)
	}()

	require.Eventually(t, func() bool {
		n, err := st.CountUnread(ctx, user.ID)
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		pending, err := client.XPending(ctx, cnst.NotificationStream, cnst.NotificationGroup).Result()
		return err == nil && pending.Count == 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	// only the valid message produced a row
	var count int64
	require.NoError(t, st.DB().Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWelcomeSubscriber(t *testing.T) {
	_, client := testRedis(t)
	q := NewRedisQueue(zap.NewNop(), client, "")
	handler := WelcomeSubscriber(zap.NewNop(), q)

	handler(context.Background(), events.MemberAdded{
		Team:   &model.Team{ID: 4, Name: "Crewforge"},
		Member: &model.TeamMember{TeamID: 4, UserID: 11, Role: cnst.MemberRoleMember},
	})

	entries, err := client.XRange(context.Background(), cnst.NotificationStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var got Message
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["message"].(string)), &got))
	assert.Equal(t, uint(11), got.UserID)
	assert.Equal(t, cnst.NotificationTypeTeamWelcome, got.Type)
	assert.Equal(t, "Crewforge", got.Data["teamName"])
	assert.Equal(t, cnst.MemberRoleMember, got.Data["role"])
}
