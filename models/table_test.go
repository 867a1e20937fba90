package models

import "testing"

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		User{}.TableName():             "chat_user",
		ChatRoom{}.TableName():         "chat_room",
		RoomMember{}.TableName():       "chat_room_member",
		Message{}.TableName():          "chat_message",
		Upload{}.TableName():           "chat_upload",
		Comment{}.TableName():          "chat_comment",
		PushNotification{}.TableName(): "chat_push_notification",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("table name = %q, want %q", got, want)
		}
	}
}

func TestValidators(t *testing.T) {
	if !ValidStatus(StatusOnline) || !ValidStatus(StatusAway) || ValidStatus("sleeping") {
		t.Error("ValidStatus misbehaving")
	}
	if !ValidRole(RoleAdmin) || !ValidRole(RoleModerator) || ValidRole("owner") {
		t.Error("ValidRole misbehaving")
	}
	if !ValidMessageType(MessageTypeText) || !ValidMessageType(MessageTypeSystem) || ValidMessageType("video") {
		t.Error("ValidMessageType misbehaving")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
	if got := NormalizeEmail("not-an-email"); got != "not-an-email" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
