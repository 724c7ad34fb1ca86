// Copyright (c) 2025 The profitbot Authors

// Package gobs holds the gob-encoded record types saved in the
// database. Fields must stay backward compatible; deprecated fields
// are removed only after no stored record can contain them.
package gobs

type TelegramState struct {
	// UserChatIDMap remembers the chat id of each authorized user that
	// has messaged the bot, so that notifications can be pushed to
	// them later.
	UserChatIDMap map[string]int64
}
