package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/DeskOS/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShell(t *testing.T) (*Shell, *vfs.FileSystem) {
	t.Helper()
	fs := vfs.New(storage.NewMemoryStore())
	_, err := fs.Load(context.Background())
	require.NoError(t, err)
	return New(fs, ""), fs
}

func run(sh *Shell, line string) Result {
	return sh.Execute(context.Background(), line)
}

func TestNavigation(t *testing.T) {
	sh, _ := newShell(t)

	assert.Equal(t, "/", run(sh, "pwd").Output)
	assert.Equal(t, "Applications/  Desktop/  Documents/  Downloads/", run(sh, "ls").Output)

	res := run(sh, "cd Documents/Projects")
	assert.Empty(t, res.Output)
	assert.Equal(t, "/Documents/Projects", res.Cwd)

	run(sh, "cd ../..")
	assert.Equal(t, "/", sh.Cwd())

	run(sh, "cd /Desktop")
	run(sh, "cd")
	assert.Equal(t, "/", sh.Cwd())
}

func TestCdErrors(t *testing.T) {
	sh, _ := newShell(t)

	assert.Equal(t, "cd: no such file or directory: Nope", run(sh, "cd Nope").Output)
	assert.Equal(t, "cd: not a directory: Desktop/Welcome.txt", run(sh, "cd Desktop/Welcome.txt").Output)
	assert.Equal(t, "/", sh.Cwd())
}

func TestUnknownCommand(t *testing.T) {
	sh, _ := newShell(t)
	assert.Equal(t, "command not found: vim", run(sh, "vim file").Output)
	assert.Empty(t, run(sh, "   ").Output)
}

func TestFileCommands(t *testing.T) {
	sh, fs := newShell(t)

	run(sh, "cd Documents")
	assert.Empty(t, run(sh, "mkdir Reports").Output)
	assert.Equal(t, "mkdir: file exists: Reports", run(sh, "mkdir Reports").Output)
	assert.Equal(t, "mkdir: no such file or directory: a/b", run(sh, "mkdir a/b").Output)

	run(sh, `echo "quarterly draft" > Reports/report.txt`)
	assert.Equal(t, "quarterly draft\n", run(sh, "cat Reports/report.txt").Output)
	run(sh, "echo more >> Reports/report.txt")
	assert.Equal(t, "quarterly draft\nmore\n", run(sh, "cat Reports/report.txt").Output)

	assert.Empty(t, run(sh, "touch Reports/empty.txt").Output)
	content, ok := fs.ReadFile("/Documents/Reports/empty.txt")
	require.True(t, ok)
	assert.Empty(t, content)

	assert.Equal(t, "cat: is a directory: Reports", run(sh, "cat Reports").Output)
	assert.Equal(t, "cat: no such file or directory: ghost", run(sh, "cat ghost").Output)

	assert.Empty(t, run(sh, "mv Reports/report.txt /Desktop").Output)
	assert.True(t, fs.Exists("/Desktop/report.txt"))
	assert.False(t, fs.Exists("/Documents/Reports/report.txt"))

	assert.Equal(t, "rm: is a directory: Reports", run(sh, "rm Reports").Output)
	assert.Empty(t, run(sh, "rm -r Reports").Output)
	assert.False(t, fs.Exists("/Documents/Reports/empty.txt"))
	assert.Equal(t, "rm: no such file or directory: Reports", run(sh, "rm Reports").Output)
}

func TestRemovingWorkingDirectoryMovesUp(t *testing.T) {
	sh, _ := newShell(t)
	run(sh, "cd /Documents/Projects")
	run(sh, "rm -r /Documents")
	assert.Equal(t, "/", sh.Cwd())
}

func TestLongListing(t *testing.T) {
	sh, _ := newShell(t)
	out := run(sh, "ls -l /Documents").Output
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "d "))
	assert.Contains(t, lines[0], "1 items")
	assert.True(t, strings.HasSuffix(lines[0], "Projects"))
	assert.Contains(t, lines[1], "0 items")
	assert.True(t, strings.HasSuffix(lines[1], "Work"))
	assert.True(t, strings.HasPrefix(lines[2], "- "))
	assert.Contains(t, lines[2], " B ")
	assert.True(t, strings.HasSuffix(lines[2], "Notes.txt"))
}

func TestOpen(t *testing.T) {
	sh, _ := newShell(t)

	res := run(sh, "open /Applications/Calculator.app")
	require.NotNil(t, res.Open)
	assert.Equal(t, "calculator", res.Open.App.ID)
	assert.Empty(t, res.Open.Path)

	res = run(sh, "open Desktop/Welcome.txt")
	require.NotNil(t, res.Open)
	assert.Equal(t, "textedit", res.Open.App.ID)
	assert.Equal(t, "/Desktop/Welcome.txt", res.Open.Path)

	res = run(sh, "open -a terminal")
	require.NotNil(t, res.Open)
	assert.Equal(t, "terminal", res.Open.App.ID)

	assert.Nil(t, run(sh, "open nope").Open)
}

func TestMiscCommands(t *testing.T) {
	sh, _ := newShell(t)
	sh.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	assert.Equal(t, DefaultUser, run(sh, "whoami").Output)
	assert.Equal(t, "Fri Mar  1 09:30:00 UTC 2024", run(sh, "date").Output)
	assert.True(t, run(sh, "clear").Clear)
	assert.Contains(t, run(sh, "help").Output, "mkdir")
	assert.Equal(t, "a b", run(sh, "echo a   b").Output)

	hist := sh.History()
	assert.Equal(t, "echo a   b", hist[len(hist)-1])
	assert.Contains(t, run(sh, "history").Output, "whoami")
}

func TestQuoting(t *testing.T) {
	sh, fs := newShell(t)

	assert.Equal(t, "hello world x", run(sh, `echo "hello world" x`).Output)
	run(sh, `echo 'two words' > "/Desktop/my file.txt"`)
	assert.Equal(t, "two words\n", run(sh, `cat '/Desktop/my file.txt'`).Output)
	assert.Equal(t, "two words\n", run(sh, `cat /Desktop/my\ file.txt`).Output)
	assert.True(t, fs.Exists("/Desktop/my file.txt"))
	assert.Empty(t, run(sh, "   ").Output)
}

func TestUnterminatedQuote(t *testing.T) {
	sh, _ := newShell(t)
	before := len(sh.History())

	res := run(sh, `echo "never closed`)
	assert.True(t, strings.HasPrefix(res.Output, "parse error: "))
	assert.Contains(t, res.Output, "Unterminated")
	assert.Equal(t, "/", res.Cwd)
	assert.Len(t, sh.History(), before)

	res = run(sh, `cat 'half`)
	assert.True(t, strings.HasPrefix(res.Output, "parse error: "))
}
