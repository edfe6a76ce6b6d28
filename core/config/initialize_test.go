package config

import (
	"bytes"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if _, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("LoadConfigFile", func(t *testing.T) {
		fromFile, err := Load(filepath.Join(tempDir, ConfigurationName))
		assert.Nil(t, err)
		assert.Equal(t, cfg.Prompt, fromFile.Prompt)
	})

	t.Run("OpenAppLog", func(t *testing.T) {
		fd, err := cfg.OpenAppLog()
		assert.Nil(t, err)
		fd.Close()
		assert.FileExists(t, filepath.Join(tempDir, AppLogName))
	})

	t.Run("ReadAppLog", func(t *testing.T) {
		fd, err := cfg.ReadAppLog()
		assert.Nil(t, err)
		fd.Close()
	})
}

func TestInitializeKeepsExisting(t *testing.T) {
	tempDir := t.TempDir()
	custom := []byte("prompt: \"$ \"\nmax_line_length: 50\ncolor: never\nevent_log: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ConfigurationName), custom, 0600))

	out := &bytes.Buffer{}
	cfg, err := Initialize(tempDir, log.New(out, "", 0))
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, 50, cfg.MaxLineLength)
	assert.Contains(t, out.String(), "already exists")
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown-field": "prompt: x\nmax_line_length: 10\ncolor: auto\nevent_log: true\nbogus: 1\n",
		"invalid":       "prompt: x\nmax_line_length: 1\ncolor: auto\nevent_log: true\n",
	}

	for tn, contents := range cases {
		t.Run(tn, func(t *testing.T) {
			tempDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tempDir, ConfigurationName), []byte(contents), 0600))

			_, err := Load(tempDir)
			assert.Error(t, err)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
