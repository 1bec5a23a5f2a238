package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountBody_RoundTrip(t *testing.T) {
	body, err := EncodeBody(AccountBody{Username: "u", Password: "p", Info: "i"})
	require.NoError(t, err)

	decoded := DecodeAccountBody(body)
	assert.Equal(t, "u", decoded.Username)
	assert.Equal(t, "p", decoded.Password)
	assert.Equal(t, "i", decoded.Info)
}

func TestDecodeAccountBody_Lenient(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, AccountBody{}, DecodeAccountBody(""))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		assert.Equal(t, AccountBody{}, DecodeAccountBody("{not json"))
	})

	t.Run("missing fields", func(t *testing.T) {
		decoded := DecodeAccountBody(`{"username":"only"}`)
		assert.Equal(t, "only", decoded.Username)
		assert.Empty(t, decoded.Password)
		assert.Empty(t, decoded.Info)
	})
}

func TestToDoBody_RoundTrip(t *testing.T) {
	in := ToDoBody{Title: "pay rent", Priority: PriorityHigh, Due: "2026-09-01", Info: "wire it", Done: false}
	body, err := EncodeBody(in)
	require.NoError(t, err)

	assert.Equal(t, in, DecodeToDoBody(body))
}

func TestDecodeToDoBody_Defaults(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	t.Run("malformed JSON", func(t *testing.T) {
		decoded := DecodeToDoBody("???")
		assert.Equal(t, PriorityNormal, decoded.Priority)
		assert.Equal(t, today, decoded.Due)
		assert.False(t, decoded.Done)
	})

	t.Run("empty due defaults to today", func(t *testing.T) {
		decoded := DecodeToDoBody(`{"title":"x","priority":"high","due":""}`)
		assert.Equal(t, PriorityHigh, decoded.Priority)
		assert.Equal(t, today, decoded.Due)
	})

	t.Run("unknown priority normalized", func(t *testing.T) {
		decoded := DecodeToDoBody(`{"priority":"urgent!!"}`)
		assert.Equal(t, PriorityNormal, decoded.Priority)
	})
}

func TestNewToDoBody(t *testing.T) {
	b := NewToDoBody()
	assert.Equal(t, PriorityNormal, b.Priority)
	assert.Equal(t, time.Now().Format("2006-01-02"), b.Due)
}

func TestValidKind(t *testing.T) {
	for _, k := range []Kind{KindNotes, KindToDo, KindAccounts, KindFiles} {
		assert.True(t, ValidKind(k), string(k))
	}
	assert.False(t, ValidKind("bookmarks"))
}
