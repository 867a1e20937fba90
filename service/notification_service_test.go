package service

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/gorm"

	"github.com/cydxin/chatapp-backend/apperr"
	"github.com/cydxin/chatapp-backend/cons"
)

func TestNotificationService_BuildRows(t *testing.T) {
	ns := NewNotificationService(&Service{})

	// 去重 + 排除 actor + 跳过 0
	rows, err := ns.BuildRows(1, []uint64{1, 2, 2, 3, 0}, cons.NotifyNewMessage, "New message", "hi", map[string]any{"room_id": 5})
	if err != nil {
		t.Fatalf("BuildRows: %v", err)
	}
	if len(rows) != 2 || rows[0].UserID != 2 || rows[1].UserID != 3 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
	if rows[0].Type != cons.NotifyNewMessage || rows[0].IsRead {
		t.Fatalf("unexpected row: %#v", rows[0])
	}
	if len(rows[0].Data) == 0 {
		t.Fatal("payload should be marshaled")
	}

	// actorID=0：没有操作者语义，不排除任何人
	rows, err = ns.BuildRows(0, []uint64{1, 2}, cons.NotifyRoomInvite, "Room invite", "hi", nil)
	if err != nil {
		t.Fatalf("BuildRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %#v", rows)
	}
}

func TestNotificationService_CreateNotification_InvalidType(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ns := NewNotificationService(&Service{DB: gormDB})

	_, err := ns.CreateNotification(CreateNotificationReq{UserID: 1, Title: "t", Body: "b", Type: "carrier_pigeon"})
	if !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestNotificationService_CreateNotification(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ns := NewNotificationService(&Service{DB: gormDB})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `chat_push_notification`")).
		WillReturnResult(sqlmock.NewResult(6, 1))

	n, err := ns.CreateNotification(CreateNotificationReq{
		UserID: 1,
		Title:  "Heads up",
		Body:   "something happened",
		Type:   cons.NotifyStatusUpdate,
		Data:   map[string]any{"user_id": 2},
	})
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	if n.ID != 6 || n.UserID != 1 || n.IsRead {
		t.Fatalf("unexpected notification: %#v", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ns := NewNotificationService(&Service{DB: gormDB})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_push_notification` WHERE id = ?")).
		WithArgs(uint64(6), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "body", "type", "is_read"}).
			AddRow(uint64(6), uint64(1), "t", "b", "new_message", false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `chat_push_notification` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := ns.MarkRead(6)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !n.IsRead {
		t.Fatal("expected is_read = true")
	}
}

func TestNotificationService_MarkRead_Idempotent(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ns := NewNotificationService(&Service{DB: gormDB})

	// 已读的通知再标一次：同样成功
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_push_notification` WHERE id = ?")).
		WithArgs(uint64(6), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "body", "type", "is_read"}).
			AddRow(uint64(6), uint64(1), "t", "b", "new_message", true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `chat_push_notification` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := ns.MarkRead(6)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !n.IsRead {
		t.Fatal("expected is_read = true")
	}
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ns := NewNotificationService(&Service{DB: gormDB})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_push_notification` WHERE id = ?")).
		WithArgs(uint64(404), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := ns.MarkRead(404)
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestNotificationService_ListUserNotifications(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ns := NewNotificationService(&Service{DB: gormDB})

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "body", "type", "is_read"}).
		AddRow(uint64(8), uint64(1), "t2", "b2", "new_upload", false).
		AddRow(uint64(6), uint64(1), "t1", "b1", "new_message", true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_push_notification` WHERE user_id = ?")).
		WillReturnRows(rows)

	items, err := ns.ListUserNotifications(1, 0, 0)
	if err != nil {
		t.Fatalf("ListUserNotifications: %v", err)
	}
	if len(items) != 2 || items[0].ID != 8 || items[1].ID != 6 {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestNotificationService_ListUserNotifications_MissingUser(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ns := NewNotificationService(&Service{DB: gormDB})

	_, err := ns.ListUserNotifications(0, 10, 0)
	if !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}
