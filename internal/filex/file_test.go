package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("Resources/Media")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "Resources", "Media"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "media")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	_, err := EnsureDir(path)
	require.Error(t, err)
}

func TestReadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "users.json")

	data, err := ReadOrCreate(path)
	require.NoError(t, err)
	require.Empty(t, data)

	ok, err := Exists(path)
	require.NoError(t, err)
	require.True(t, ok, "file must be created")

	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o660))
	data, err = ReadOrCreate(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`[{"id":1}]`)))
	require.NoError(t, WriteFileAtomic(path, []byte(`[]`)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_FailsWhenTargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.Mkdir(target, 0o770))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o660))

	err := WriteFileAtomic(target, []byte("data"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = Exists(dir)
	require.NoError(t, err)
	require.False(t, ok, "directories are not payload files")
}
