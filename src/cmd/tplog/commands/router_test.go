// FILE: tplog/src/cmd/tplog/commands/router_test.go
package commands

import (
	"bytes"
	"strings"
	"testing"

	"tplog/src/internal/admin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	router := NewCommandRouter()

	handled, err := router.Route([]string{"tplog"})
	assert.False(t, handled)
	assert.NoError(t, err)

	handled, err = router.Route([]string{"tplog", "-config", "x.toml"})
	assert.False(t, handled)
	assert.NoError(t, err)

	handled, err = router.Route([]string{"tplog", "rotate"})
	assert.False(t, handled)
	assert.ErrorContains(t, err, "unknown command: rotate")

	for _, name := range []string{"capture", "init", "token", "version", "help"} {
		_, ok := router.GetCommand(name)
		assert.True(t, ok, name)
	}
}

func TestTokenCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := &TokenCommand{output: &out, errOut: &errOut}

	require.NoError(t, cmd.Execute([]string{"-secret", "k", "-u", "ops", "-ttl", "1h"}))
	token := strings.TrimSpace(out.String())
	require.NotEmpty(t, token)

	v, err := admin.NewTokenValidator("k")
	require.NoError(t, err)
	assert.NoError(t, v.Validate("Bearer "+token))

	assert.Error(t, cmd.Execute([]string{"-secret", "k", "extra"}))
	assert.Error(t, cmd.Execute([]string{"-secret", "k", "-ttl", "-1s"}))
}
