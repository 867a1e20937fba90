package service

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/cydxin/chatapp-backend/apperr"
)

func TestUploadService_CreateUpload_NoRoom(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	us := NewUploadService(newTestService(gormDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_user` WHERE id = ?")).
		WithArgs(uint64(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "username", "email", "status"}).
			AddRow(uint64(1), "u-1", "alice", "alice@example.com", "online"))

	// 不关联房间：单条插入，没有事务也没有通知
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `chat_upload`")).
		WillReturnResult(sqlmock.NewResult(4, 1))

	up, err := us.CreateUpload(CreateUploadReq{
		UserID:   1,
		Filename: "pic.png",
		FileURL:  "https://cdn.example.com/pic.png",
		FileSize: 1024,
		FileType: "image/png",
	})
	if err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}
	if up.ID != 4 || up.RoomID != nil {
		t.Fatalf("unexpected upload: %#v", up)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUploadService_CreateUpload_WithRoomFanOut(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	us := NewUploadService(newTestService(gormDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_user` WHERE id = ?")).
		WithArgs(uint64(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "username", "email", "status"}).
			AddRow(uint64(1), "u-1", "alice", "alice@example.com", "online"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `chat_room` WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `chat_room_member` WHERE room_id = ? AND user_id = ?")).
		WithArgs(uint64(5), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `user_id` FROM `chat_room_member` WHERE room_id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(uint64(1)).AddRow(uint64(2)))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `chat_upload`")).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `chat_push_notification`")).
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectCommit()

	roomID := uint64(5)
	up, err := us.CreateUpload(CreateUploadReq{
		UserID:   1,
		RoomID:   &roomID,
		Filename: "pic.png",
		FileURL:  "https://cdn.example.com/pic.png",
		FileSize: 1024,
		FileType: "image/png",
	})
	if err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}
	if up.RoomID == nil || *up.RoomID != 5 {
		t.Fatalf("unexpected upload: %#v", up)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUploadService_CreateUpload_NotMember(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	us := NewUploadService(newTestService(gormDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_user` WHERE id = ?")).
		WithArgs(uint64(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "username", "email", "status"}).
			AddRow(uint64(1), "u-1", "alice", "alice@example.com", "online"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `chat_room` WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `chat_room_member` WHERE room_id = ? AND user_id = ?")).
		WithArgs(uint64(5), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	roomID := uint64(5)
	_, err := us.CreateUpload(CreateUploadReq{
		UserID:   1,
		RoomID:   &roomID,
		Filename: "pic.png",
		FileURL:  "https://cdn.example.com/pic.png",
		FileSize: 1024,
		FileType: "image/png",
	})
	if !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
}

func TestUploadService_ListUploads(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	us := NewUploadService(newTestService(gormDB))

	// room_id 和 user_id 同时给出：取交集
	rows := sqlmock.NewRows([]string{"id", "user_id", "room_id", "filename", "file_url", "file_size", "file_type"}).
		AddRow(uint64(9), uint64(1), uint64(5), "new.png", "https://cdn.example.com/new.png", int64(2048), "image/png").
		AddRow(uint64(4), uint64(1), uint64(5), "old.png", "https://cdn.example.com/old.png", int64(1024), "image/png")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_upload` WHERE room_id = ? AND user_id = ? ORDER BY created_at DESC LIMIT ?")).
		WithArgs(uint64(5), uint64(1), 20).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_user` WHERE `chat_user`.`id`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(uint64(1), "alice", "alice@example.com"))

	// 只有 4 号有评论：9 号必须报 0
	mock.ExpectQuery(regexp.QuoteMeta("SELECT upload_id, COUNT(*) as cnt FROM `chat_comment`")).
		WillReturnRows(sqlmock.NewRows([]string{"upload_id", "cnt"}).AddRow(uint64(4), int64(2)))

	roomID, userID := uint64(5), uint64(1)
	out, err := us.ListUploads(&roomID, &userID, 0, 0)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(out) != 2 || out[0].ID != 9 || out[1].ID != 4 {
		t.Fatalf("unexpected uploads: %#v", out)
	}
	if out[0].CommentCount != 0 {
		t.Fatalf("commentless upload should report 0, got %d", out[0].CommentCount)
	}
	if out[1].CommentCount != 2 {
		t.Fatalf("expected 2 comments, got %d", out[1].CommentCount)
	}
	if out[0].Uploader.Username != "alice" || out[1].Uploader.Username != "alice" {
		t.Fatalf("uploader should be joined, got %#v", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUploadService_ListUploads_Empty(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	us := NewUploadService(newTestService(gormDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `chat_upload`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "filename"}))

	out, err := us.ListUploads(nil, nil, 0, 0)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %#v", out)
	}

	// 没有上传就不该有评论计数查询
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUploadService_CreateUpload_InvalidSize(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	us := NewUploadService(newTestService(gormDB))

	_, err := us.CreateUpload(CreateUploadReq{
		UserID:   1,
		Filename: "pic.png",
		FileURL:  "https://cdn.example.com/pic.png",
		FileSize: 0,
		FileType: "image/png",
	})
	if !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}
