package storage

import (
	"errors"
	"io"
	"snowbird/internal/domain/model"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func writeString(content string) func(w io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	}
}

func TestWriteCreatesDirAndFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway := NewCacheGateway(fs, "/tmp/cams")

	file, err := gateway.Write("Mid_Gad.jpg", writeString("image"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if file.Path != "/tmp/cams/Mid_Gad.jpg" || file.Size != 5 {
		t.Fatalf("unexpected cached file %+v", file)
	}

	content, err := afero.ReadFile(fs, "/tmp/cams/Mid_Gad.jpg")
	if err != nil || string(content) != "image" {
		t.Fatalf("unexpected content %q (%v)", content, err)
	}
}

func TestWriteLeavesFileWorldReadable(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway := NewCacheGateway(fs, "/tmp/cams")

	if _, err := gateway.Write("Summit.jpg", writeString("image")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	info, err := fs.Stat("/tmp/cams/Summit.jpg")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Fatalf("file mode = %o, want 644", perm)
	}
}

func TestFailedFillKeepsPreviousCopy(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway := NewCacheGateway(fs, "/tmp/cams")

	if _, err := gateway.Write("Summit.jpg", writeString("old")); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	boom := errors.New("connection reset")
	_, err := gateway.Write("Summit.jpg", func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fill error to pass through, got %v", err)
	}

	content, _ := afero.ReadFile(fs, "/tmp/cams/Summit.jpg")
	if string(content) != "old" {
		t.Fatalf("previous copy must survive a failed refresh, got %q", content)
	}

	files, err := gateway.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "Summit.jpg" {
		t.Fatalf("temporary files must not be listed or left behind: %+v", files)
	}
	infos, _ := afero.ReadDir(fs, "/tmp/cams")
	if len(infos) != 1 {
		t.Fatalf("expected only Summit.jpg on disk, found %d entries", len(infos))
	}
}

func TestStat(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway := NewCacheGateway(fs, "/tmp/cams")

	_, exists, err := gateway.Stat("Summit.jpg")
	if err != nil || exists {
		t.Fatalf("expected missing file, got exists=%v err=%v", exists, err)
	}

	_ = afero.WriteFile(fs, "/tmp/cams/Summit.jpg", []byte("x"), 0o644)
	mtime := time.Now().Add(-2000 * time.Second)
	_ = fs.Chtimes("/tmp/cams/Summit.jpg", mtime, mtime)

	file, exists, err := gateway.Stat("Summit.jpg")
	if err != nil || !exists {
		t.Fatalf("expected existing file, got exists=%v err=%v", exists, err)
	}
	if !file.ModTime.Equal(mtime) {
		t.Fatalf("modtime = %v, want %v", file.ModTime, mtime)
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	gateway := NewCacheGateway(afero.NewMemMapFs(), "/tmp/cams")

	files, err := gateway.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty listing, got %+v", files)
	}
}

func TestListSkipsHiddenAndDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/tmp/cams/Summit.jpg", []byte("a"), 0o644)
	_ = afero.WriteFile(fs, "/tmp/cams/.Summit.jpg.123.part", []byte("b"), 0o644)
	_ = fs.MkdirAll("/tmp/cams/nested", 0o755)

	files, err := NewCacheGateway(fs, "/tmp/cams").List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "Summit.jpg" {
		t.Fatalf("unexpected listing %+v", files)
	}
}

func TestEnsureDirFailureIsFilesystemError(t *testing.T) {
	gateway := NewCacheGateway(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/tmp/cams")

	err := gateway.EnsureDir()
	if !errors.Is(err, model.ErrFilesystem) {
		t.Fatalf("expected ErrFilesystem, got %v", err)
	}

	_, err = gateway.Write("Summit.jpg", writeString("x"))
	if !errors.Is(err, model.ErrFilesystem) {
		t.Fatalf("expected ErrFilesystem on write, got %v", err)
	}
}

func TestOpenAndPathStayInsideDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/tmp/cams/Summit.jpg", []byte("jpeg"), 0o644)
	gateway := NewCacheGateway(fs, "/tmp/cams")

	if got := gateway.Path("../../etc/passwd"); got != "/tmp/cams/passwd" {
		t.Fatalf("path escaped cache dir: %s", got)
	}

	reader, file, err := gateway.Open("Summit.jpg")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	content, _ := io.ReadAll(reader)
	if !strings.EqualFold(string(content), "jpeg") || file.Size != 4 {
		t.Fatalf("unexpected open result %q %+v", content, file)
	}
}
