package service

import "fmt"

// Partition keys. Every per-user partition embeds the user id.

func HistoryKey(userID int64) string {
	return fmt.Sprintf("transactions:%d", userID)
}

// CorruptHistoryKey keeps the last unreadable history of a user before it is
// replaced.
func CorruptHistoryKey(userID int64) string {
	return fmt.Sprintf("transactions:%d:corrupt", userID)
}

func BalanceKey(userID int64) string {
	return fmt.Sprintf("balance:%d", userID)
}

func SessionKey(token string) string {
	return "session:" + token
}

func ChangesChannel(userID int64) string {
	return fmt.Sprintf("ledger:changes:%d", userID)
}
