package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/domain"
)

func testNameMap() *NameMap {
	return BuildNameMap([]domain.ResidentName{
		{ID: "R001", Name: "山田 太郎"},
		{ID: "R002", Name: "ﾀﾅｶ ﾊﾅｺ"},
	}, time.Time{})
}

func newSyncService(roster *fakeRoster, writer *fakeChatLogs, notifier SyncNotifier) *ChatworkSyncService {
	resolver := NewNameMapResolver(roster, nil, time.Minute, zap.NewNop())
	return NewChatworkSyncService(resolver, writer, notifier, zap.NewNop())
}

func defaultRoster() *fakeRoster {
	return &fakeRoster{roster: []domain.ResidentName{
		{ID: "R001", Name: "山田 太郎"},
		{ID: "R002", Name: "タナカ ハナコ"},
	}}
}

func TestClassifyEntry_Accepted(t *testing.T) {
	out := ClassifyEntry(chatwork.RawChatEntry{
		Datetime:     "2024/05/01 09:30",
		ResidentName: " 山田　太郎 ",
		Message:      "排便あり、発熱なし",
		StaffName:    "  鈴木 ",
		MessageID:    " 123 ",
	}, testNameMap())

	require.Equal(t, OutcomeAccepted, out.Kind)
	assert.Equal(t, "123", out.Record.ID)
	assert.Equal(t, "R001", out.Record.UserID)
	assert.Equal(t, "鈴木", *out.Record.StaffName)
	assert.Equal(t, domain.CategoryExcretion, out.Record.CategoryTag)
	assert.True(t, out.Record.SendTime.Equal(time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC)))
}

func TestClassifyEntry_EmptyStaffNameIsNull(t *testing.T) {
	out := ClassifyEntry(chatwork.RawChatEntry{
		Datetime: "2024-05-01", ResidentName: "山田太郎", Message: "入眠", StaffName: "   ", MessageID: "m1",
	}, testNameMap())

	require.Equal(t, OutcomeAccepted, out.Kind)
	assert.Nil(t, out.Record.StaffName)
	assert.Equal(t, domain.CategorySleep, out.Record.CategoryTag)
}

func TestClassifyEntry_DroppedInvalid(t *testing.T) {
	names := testNameMap()
	cases := map[string]chatwork.RawChatEntry{
		"missing id":      {Datetime: "2024-05-01 09:30", ResidentName: "山田太郎", Message: "x"},
		"blank message":   {Datetime: "2024-05-01 09:30", ResidentName: "山田太郎", Message: "  ", MessageID: "m1"},
		"bad datetime":    {Datetime: "05/01 9:30", ResidentName: "山田太郎", Message: "x", MessageID: "m1"},
		"impossible date": {Datetime: "2024-02-30 09:30", ResidentName: "山田太郎", Message: "x", MessageID: "m1"},
		"unknown and bad": {Datetime: "", ResidentName: "誰か", Message: "x", MessageID: "m1"},
	}
	for name, entry := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, OutcomeDroppedInvalid, ClassifyEntry(entry, names).Kind)
		})
	}
}

func TestClassifyEntry_SkippedKeepsOriginalName(t *testing.T) {
	out := ClassifyEntry(chatwork.RawChatEntry{
		Datetime: "2024-05-01 09:30", ResidentName: "ｻﾄｳ ｼﾞﾛｳ", Message: "x", MessageID: "m1",
	}, testNameMap())
	require.Equal(t, OutcomeSkippedUnresolved, out.Kind)
	assert.Equal(t, "ｻﾄｳ ｼﾞﾛｳ", out.OriginalName)

	out = ClassifyEntry(chatwork.RawChatEntry{
		Datetime: "2024-05-01 09:30", ResidentName: "", Message: "x", MessageID: "m2",
	}, testNameMap())
	require.Equal(t, OutcomeSkippedUnresolved, out.Kind)
	assert.Equal(t, EmptyResidentName, out.OriginalName)
}

func TestReduceOutcomes_DeduplicatesByID(t *testing.T) {
	records, report := ReduceOutcomes([]EntryOutcome{
		{Kind: OutcomeAccepted, Record: domain.ChatLog{ID: "m1", Message: "old"}},
		{Kind: OutcomeSkippedUnresolved, OriginalName: "A"},
		{Kind: OutcomeAccepted, Record: domain.ChatLog{ID: "m2", Message: "other"}},
		{Kind: OutcomeDroppedInvalid},
		{Kind: OutcomeAccepted, Record: domain.ChatLog{ID: "m1", Message: "new"}},
		{Kind: OutcomeSkippedUnresolved, OriginalName: "B"},
	})

	require.Len(t, records, 2)
	assert.Equal(t, "m1", records[0].ID)
	assert.Equal(t, "new", records[0].Message)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, []string{"A", "B"}, report.SkippedNames)
	assert.Equal(t, 1, report.Dropped)
}

func TestSync_MixedBatch(t *testing.T) {
	writer := &fakeChatLogs{}
	notifier := &fakeNotifier{}
	svc := newSyncService(defaultRoster(), writer, notifier)

	report, err := svc.Sync(context.Background(), domain.SyncSourceWebhook, []chatwork.RawChatEntry{
		{Datetime: "2024-05-01 09:30", ResidentName: "存在しない 人", Message: "体温37.8度", MessageID: "m1"},
		{Datetime: "2024-05-01 10:00", ResidentName: "ﾀﾅｶ ﾊﾅｺ", Message: "体温37.8度", MessageID: "m2"},
		{Datetime: "bad", ResidentName: "山田太郎", Message: "x", MessageID: "m3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []string{"存在しない 人"}, report.SkippedNames)

	require.Len(t, writer.upserted, 1)
	require.Len(t, writer.upserted[0], 1)
	assert.Equal(t, "R002", writer.upserted[0][0].UserID)
	assert.Equal(t, domain.CategoryCondition, writer.upserted[0][0].CategoryTag)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, []string{"m2"}, notifier.events[0].MessageIDs)
	assert.Equal(t, domain.SyncSourceWebhook, notifier.events[0].Source)
}

func TestSync_NonexistentCalendarDateIsDroppedNotFatal(t *testing.T) {
	writer := &fakeChatLogs{}
	svc := newSyncService(defaultRoster(), writer, nil)

	report, err := svc.Sync(context.Background(), domain.SyncSourceWebhook, []chatwork.RawChatEntry{
		{Datetime: "2024-02-30 10:00", ResidentName: "山田 太郎", Message: "排尿あり", MessageID: "m1"},
		{Datetime: "2024-02-29 10:00", ResidentName: "山田 太郎", Message: "排尿あり", MessageID: "m2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Zero(t, report.Skipped)
	assert.Empty(t, report.SkippedNames)
	assert.Equal(t, 1, report.Dropped)

	require.Len(t, writer.upserted, 1)
	require.Len(t, writer.upserted[0], 1)
	assert.Equal(t, "m2", writer.upserted[0][0].ID)
}

func TestSync_EmptyBatchDoesNotTouchStore(t *testing.T) {
	roster := defaultRoster()
	writer := &fakeChatLogs{}
	svc := newSyncService(roster, writer, nil)

	report, err := svc.Sync(context.Background(), domain.SyncSourceWebhook, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.SkippedNames)
	assert.EqualValues(t, 0, roster.calls)
	assert.Empty(t, writer.upserted)
}

func TestSync_AllSkippedSkipsUpsert(t *testing.T) {
	writer := &fakeChatLogs{}
	svc := newSyncService(defaultRoster(), writer, nil)

	report, err := svc.Sync(context.Background(), domain.SyncSourceMQTT, []chatwork.RawChatEntry{
		{Datetime: "2024-05-01 09:30", ResidentName: "不明", Message: "x", MessageID: "m1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, writer.upserted)
}

func TestSync_RosterFailureIsFatal(t *testing.T) {
	writer := &fakeChatLogs{}
	svc := newSyncService(&fakeRoster{err: errors.New("db down")}, writer, nil)

	_, err := svc.Sync(context.Background(), domain.SyncSourceWebhook, []chatwork.RawChatEntry{
		{Datetime: "2024-05-01 09:30", ResidentName: "山田太郎", Message: "x", MessageID: "m1"},
	})
	assert.ErrorIs(t, err, ErrNameMapLoad)
	assert.Empty(t, writer.upserted)
}

func TestSync_UpsertFailureIsFatal(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newSyncService(defaultRoster(), &fakeChatLogs{err: errors.New("deadlock")}, notifier)

	_, err := svc.Sync(context.Background(), domain.SyncSourceWebhook, []chatwork.RawChatEntry{
		{Datetime: "2024-05-01 09:30", ResidentName: "山田太郎", Message: "x", MessageID: "m1"},
	})
	assert.ErrorIs(t, err, ErrUpsert)
	assert.Empty(t, notifier.events)
}

func TestSync_RedeliveryIsIdempotent(t *testing.T) {
	writer := &fakeChatLogs{}
	svc := newSyncService(defaultRoster(), writer, nil)
	batch := []chatwork.RawChatEntry{
		{Datetime: "2024-05-01 09:30", ResidentName: "山田太郎", Message: "尿量多め", MessageID: "m1"},
	}

	for i := 0; i < 2; i++ {
		report, err := svc.Sync(context.Background(), domain.SyncSourceWebhook, batch)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Inserted)
	}
	require.Len(t, writer.upserted, 2)
	assert.Equal(t, writer.upserted[0], writer.upserted[1])
}

func TestSync_NotifierFailureDoesNotFailSync(t *testing.T) {
	svc := newSyncService(defaultRoster(), &fakeChatLogs{}, &fakeNotifier{err: errors.New("redis down")})

	report, err := svc.Sync(context.Background(), domain.SyncSourceWebhook, []chatwork.RawChatEntry{
		{Datetime: "2024-05-01 09:30", ResidentName: "山田太郎", Message: "x", MessageID: "m1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
}
