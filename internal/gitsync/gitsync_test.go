package gitsync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  []string
	failOn string
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	if f.failOn != "" && args[0] == f.failOn {
		return []byte("nothing to commit, working tree clean\n"), errors.New("exit status 1")
	}
	return nil, nil
}

func TestPush(t *testing.T) {
	runner := &fakeRunner{}
	s := New("/repo")
	s.Runner = runner

	err := s.Push(context.Background(), "Update products", "data/products.csv", "src/data/products.json")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git add data/products.csv src/data/products.json",
		"git commit -m Update products",
		"git push origin main",
	}, runner.calls)
}

func TestPushStopsAtFirstFailure(t *testing.T) {
	runner := &fakeRunner{failOn: "commit"}
	s := New("/repo")
	s.Runner = runner

	err := s.Push(context.Background(), "msg", "a.csv")
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "commit", cmdErr.Args[0])
	assert.Contains(t, err.Error(), "nothing to commit")
	assert.Len(t, runner.calls, 2)
}
