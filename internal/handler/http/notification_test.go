package http

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEvent_EncodesDataAsJSON(t *testing.T) {
	companyID := "PT Sejahtera é中\x01\"/"

	var buf bytes.Buffer
	require.NoError(t, writeEvent(&buf, "connected", map[string]string{
		"status":     "connected",
		"company_id": companyID,
	}))

	frame := buf.String()
	require.True(t, strings.HasSuffix(frame, "\n\n"))
	lines := strings.Split(strings.TrimSuffix(frame, "\n\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "event: connected", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "data: "))

	var data map[string]string
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &data))
	assert.Equal(t, companyID, data["company_id"])
	assert.Equal(t, "connected", data["status"])
}

func TestWriteEvent_UnencodableData(t *testing.T) {
	var buf bytes.Buffer
	err := writeEvent(&buf, "check_in", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}
