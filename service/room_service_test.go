package service

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/cydxin/chatapp-backend/apperr"
)

func TestRoomService_CreateRoom(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	rs := NewRoomService(newTestService(gormDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `chat_user` WHERE id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// 房间行和创建者的 admin 成员行在同一事务里
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `chat_room`")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `chat_room_member`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	room, err := rs.CreateRoom(CreateRoomReq{Name: "general", CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.ID != 7 || room.Name != "general" || room.CreatedBy != 1 {
		t.Fatalf("unexpected room: %#v", room)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRoomService_CreateRoom_UnknownCreator(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	rs := NewRoomService(newTestService(gormDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `chat_user` WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := rs.CreateRoom(CreateRoomReq{Name: "general", CreatedBy: 42})
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRoomService_CreateRoom_EmptyName(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	rs := NewRoomService(newTestService(gormDB))

	_, err := rs.CreateRoom(CreateRoomReq{Name: "   ", CreatedBy: 1})
	if !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestRoomService_GetUserRooms(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	rs := NewRoomService(newTestService(gormDB))

	rows := sqlmock.NewRows([]string{"id", "name", "created_by"}).
		AddRow(uint64(1), "general", uint64(1)).
		AddRow(uint64(2), "random", uint64(3))
	mock.ExpectQuery("SELECT .* FROM `chat_room` JOIN chat_room_member").
		WithArgs(uint64(5)).
		WillReturnRows(rows)

	rooms, err := rs.GetUserRooms(5)
	if err != nil {
		t.Fatalf("GetUserRooms: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "general" || rooms[1].Name != "random" {
		t.Fatalf("unexpected rooms: %#v", rooms)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRoomService_GetUserRooms_Empty(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	rs := NewRoomService(newTestService(gormDB))

	mock.ExpectQuery("SELECT .* FROM `chat_room` JOIN chat_room_member").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by"}))

	rooms, err := rs.GetUserRooms(9)
	if err != nil {
		t.Fatalf("GetUserRooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected empty list, got %#v", rooms)
	}
}

func TestRoomService_CheckRoomMember(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	rs := NewRoomService(newTestService(gormDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `chat_room_member` WHERE room_id = ? AND user_id = ?")).
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := rs.CheckRoomMember(1, 2)
	if err != nil {
		t.Fatalf("CheckRoomMember: %v", err)
	}
	if !ok {
		t.Fatal("expected member")
	}
}
