package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:TEST-TOKEN"

// signInitData подписывает параметры так же, как это делает Telegram.
func signInitData(params map[string]string, botToken string) string {
	var pairs []string
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(botToken))
	h := hmac.New(sha256.New, secretKey.Sum(nil))
	h.Write([]byte(dataCheckString))
	hash := hex.EncodeToString(h.Sum(nil))

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("hash", hash)
	return q.Encode()
}

func TestValidateInitData(t *testing.T) {
	params := map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":42,"first_name":"Иван","username":"ivan"}`,
	}

	t.Run("валидная подпись", func(t *testing.T) {
		initData := signInitData(params, testBotToken)

		ok, userData, err := validateInitData(initData, testBotToken)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(42), userData.ID)
		assert.Equal(t, "ivan", userData.Username)
	})

	t.Run("чужой токен", func(t *testing.T) {
		initData := signInitData(params, "999:OTHER-TOKEN")

		ok, _, err := validateInitData(initData, testBotToken)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("подмена данных после подписи", func(t *testing.T) {
		initData := signInitData(params, testBotToken)
		tampered := strings.Replace(initData, "1700000000", "1700000001", 1)

		ok, _, err := validateInitData(tampered, testBotToken)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("без hash", func(t *testing.T) {
		ok, _, err := validateInitData("user=%7B%22id%22%3A1%7D", testBotToken)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("без user", func(t *testing.T) {
		ok, _, err := validateInitData("hash=deadbeef&auth_date=1", testBotToken)
		assert.Error(t, err)
		assert.False(t, ok)
	})
}
