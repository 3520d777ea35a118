package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testChdir(t, t.TempDir())
	t.Setenv("LOG_LEVEL", "off")

	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestEncodeUnixMillis(t *testing.T) {
	out, err := run(t, "encode", "--millis", "0", "--machine-id", "1", "--epoch", "unix")
	require.NoError(t, err)
	assert.Equal(t, "4096\n", out)
}

func TestEncodeDiscordJSON(t *testing.T) {
	out, err := run(t, "encode", "--millis", "1420070400000", "--machine-id", "2", "--epoch", "discord", "--json")
	require.NoError(t, err)

	var got struct {
		ID        string `json:"id"`
		Timestamp string `json:"timestamp"`
		MachineID uint16 `json:"machine_id"`
		Sequence  uint16 `json:"sequence"`
		Epoch     string `json:"epoch"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "8192", got.ID)
	assert.Equal(t, "2015-01-01T00:00:00Z", got.Timestamp)
	assert.Equal(t, uint16(2), got.MachineID)
	assert.Equal(t, uint16(0), got.Sequence)
	assert.Equal(t, "2015-01-01T00:00:00Z", got.Epoch)
}

func TestEncodeRFC3339MasksSequence(t *testing.T) {
	out, err := run(t, "encode", "--rfc3339", "2020-01-01T00:00:00.005Z", "--epoch", "2020-01-01T00:00:00Z",
		"--machine-id", "3", "--sequence", "4097")
	require.NoError(t, err)

	id, err := snowflake.ParseID(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), id.Elapsed())
	assert.Equal(t, uint16(3), id.MachineID())
	assert.Equal(t, uint16(1), id.Sequence())
}

func TestEncodeErrors(t *testing.T) {
	_, err := run(t, "encode", "--rfc3339", "yesterday")
	var pe *snowflake.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "RFC3339 parse error")

	_, err = run(t, "encode", "--millis", "1000", "--epoch", "discord")
	assert.ErrorIs(t, err, snowflake.ErrTimestampBeforeEpoch)

	_, err = run(t, "encode", "--millis", "1000", "--rfc3339", "2020-01-01T00:00:00Z")
	assert.Error(t, err, "timestamp sources are mutually exclusive")

	_, err = run(t, "encode", "--machine-id", "1024")
	assert.Error(t, err)

	_, err = run(t, "encode", "--epoch", "someday")
	assert.Error(t, err)
}

func TestEncodeNowFlag(t *testing.T) {
	out, err := run(t, "encode", "--now", "--epoch", "discord")
	require.NoError(t, err)
	_, err = snowflake.ParseID(strings.TrimSpace(out))
	require.NoError(t, err)

	_, err = run(t, "encode", "--now=false")
	assert.ErrorContains(t, err, "--now=false")

	_, err = run(t, "encode", "--now", "--millis", "0")
	assert.Error(t, err)
}

func TestCommandLoggerIsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(pkglog.WithLogger(context.Background(), zerolog.New(&buf)))

	a := &app{}
	a.logger(cmd).Debug().Str(pkglog.FieldIDType, "snowflake").Msg("generated")
	assert.Contains(t, buf.String(), `"id_type":"snowflake"`)
	assert.Contains(t, buf.String(), `"message":"generated"`)
}

func TestEncodeUsesConfigFromEnv(t *testing.T) {
	t.Setenv("SNOWFLAKE_MACHINE_ID", "7")
	t.Setenv("SNOWFLAKE_EPOCH", "discord")

	out, err := run(t, "encode", "--millis", "1420070400000")
	require.NoError(t, err)
	assert.Equal(t, "28672\n", out)
}

func TestInvalidConfigFails(t *testing.T) {
	t.Setenv("SNOWFLAKE_MACHINE_ID", "5000")

	_, err := run(t, "decode", "1")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "snowflake.yaml")
	data := []byte("snowflake:\n  machine_id: 9\n  epoch: \"2020-01-01T00:00:00Z\"\n")
	require.NoError(t, os.WriteFile(file, data, 0o644))

	out, err := run(t, "--config", file, "encode", "--rfc3339", "2020-01-01T00:00:01Z")
	require.NoError(t, err)

	id, err := snowflake.ParseID(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), id.Elapsed())
	assert.Equal(t, uint16(9), id.MachineID())
}

func TestDecode(t *testing.T) {
	out, err := run(t, "decode", "1359135689932804096", "--epoch", "2020-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "2030-04-08T12:00:00Z")
	assert.Contains(t, out, "machine_id: 1\n")
	assert.Contains(t, out, "sequence:   0\n")

	out, err = run(t, "decode", "8192", "--epoch", "discord", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"timestamp": "2015-01-01T00:00:00Z"`)
	assert.Contains(t, out, `"machine_id": 2`)

	_, err = run(t, "decode", "not-an-id")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	out, err := run(t, "generate", "--type", "uuid", "-n", "3")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 3)

	_, err = run(t, "generate", "--count", "1001")
	assert.Error(t, err)

	_, err = run(t, "generate", "--type", "guid")
	assert.Error(t, err)
}

func TestValidateAndParseSnowflake(t *testing.T) {
	t.Setenv("SNOWFLAKE_MACHINE_ID", "11")

	out, err := run(t, "generate")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	out, err = run(t, "validate", id)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = run(t, "parse", id)
	require.NoError(t, err)
	var res struct {
		Type      string `json:"type"`
		MachineID uint16 `json:"machine_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "snowflake", res.Type)
	assert.Equal(t, uint16(11), res.MachineID)

	_, err = run(t, "validate", "abc")
	assert.Error(t, err)
}

func TestCollisions(t *testing.T) {
	out, err := run(t, "collisions", "--machine-id", "42", "--epoch", "2020-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "unique ids: 4096 of 4096\n", out)

	out, err = run(t, "collisions", "--count", "4098", "--json")
	require.NoError(t, err)
	var report collisionReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, collisionReport{Issued: 4098, Unique: 4096, Collisions: 2, FirstCollision: 4096}, report)

	_, err = run(t, "collisions", "--count", "0")
	assert.Error(t, err)
}
