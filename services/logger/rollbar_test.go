package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true})

	logger.Warn("drop cancelled", map[string]interface{}{"page_id": "p1"}, core.Person{ID: "u1", Name: "Demo"})
	logger.Error("save failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "WARN drop cancelled\n")
	assert.Contains(t, out, "map[page_id:p1]\n")
	assert.NotContains(t, out, "u1")
	assert.Contains(t, out, "ERROR save failed\nboom\n")

	args := logger.prepare("msg", []interface{}{core.Person{ID: "u1"}, "x"})
	assert.Equal(t, []interface{}{"msg", "x"}, args)
}
