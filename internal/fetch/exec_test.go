// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/inscrap/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	output        []byte
	err           error

	gotName string
	gotArgs []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	m.gotName = name
	m.gotArgs = args
	return m.output, m.err
}

func TestNewExec(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		bins    map[string]bool
		wantBin string
		wantErr bool
	}{
		{"default chromium", "", map[string]bool{"chromium": true}, "/usr/bin/chromium", false},
		{"configured path", "google-chrome", map[string]bool{"google-chrome": true}, "/usr/bin/google-chrome", false},
		{"missing browser", "", map[string]bool{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := newExec(types.FetchConfig{BrowserPath: tt.path}, &mockExecutor{availableBins: tt.bins})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBin, f.bin)
		})
	}
}

func TestExec_Fetch(t *testing.T) {
	m := &mockExecutor{
		availableBins: map[string]bool{"chromium": true},
		output:        []byte("<html>rendered</html>"),
	}
	f, err := newExec(types.FetchConfig{BaseURL: "http://sheets.test"}, m)
	require.NoError(t, err)

	content, err := f.Fetch(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, "<html>rendered</html>", content)
	assert.Equal(t, "/usr/bin/chromium", m.gotName)
	assert.Contains(t, m.gotArgs, "--dump-dom")
	assert.Equal(t, PageURL("http://sheets.test", 12), m.gotArgs[len(m.gotArgs)-1])
}

func TestExec_FetchFailure(t *testing.T) {
	m := &mockExecutor{
		availableBins: map[string]bool{"chromium": true},
		err:           errors.New("exit status 1"),
	}
	f, err := newExec(types.FetchConfig{}, m)
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), 12)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, types.Identifier(12), fe.ID)
}
