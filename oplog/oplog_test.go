package oplog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func todayFile(dir string) string {
	return filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".txt")
}

func TestEvent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "events")
	l := New(dir)
	defer l.Close()

	err := l.Event("create", "name", "B", "status", "ok")
	require.NoError(t, err)
	err = l.Event("list", "count", 3)
	require.NoError(t, err)

	d, err := os.ReadFile(todayFile(dir))
	require.NoError(t, err)
	s := string(d)
	require.Contains(t, s, " create ")
	require.Contains(t, s, " list ")
	require.Contains(t, s, "B")
}

func TestEventNoAttributes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "events")
	l := New(dir)
	defer l.Close()

	require.NoError(t, l.Event("ping"))

	d, err := os.ReadFile(todayFile(dir))
	require.NoError(t, err)
	// header says zero payload bytes
	require.True(t, strings.Contains(string(d), " ping 0\n"))
}

func TestEventOddVals(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "events"))
	defer l.Close()
	require.Error(t, l.Event("bad", "key-without-value"))
}

func TestNilLog(t *testing.T) {
	var l *Log
	require.NoError(t, l.Event("anything", "k", "v"))
	require.NoError(t, l.Close())
}

func TestCloseAndReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "events")
	l := New(dir)
	require.NoError(t, l.Event("one"))
	require.NoError(t, l.Close())

	// writing after Close reopens the file
	require.NoError(t, l.Event("two"))
	require.NoError(t, l.Close())

	d, err := os.ReadFile(todayFile(dir))
	require.NoError(t, err)
	require.Contains(t, string(d), " one ")
	require.Contains(t, string(d), " two ")
}
