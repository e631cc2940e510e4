package terminal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kballard/go-shellquote"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/apps"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/vfs"
)

// DefaultUser is reported by whoami when no user is given
const DefaultUser = "guest"

// historyLimit bounds the remembered command lines
const historyLimit = 200

// OpenRequest asks the shell's host to launch an app, optionally on a path
type OpenRequest struct {
	App  apps.App `json:"app"`
	Path string   `json:"path,omitempty"`
}

// Result is what one command line produced
type Result struct {
	Output string       `json:"output"`
	Cwd    string       `json:"cwd"`
	Clear  bool         `json:"clear,omitempty"`
	Open   *OpenRequest `json:"open,omitempty"`
}

// Shell is one terminal's state
type Shell struct {
	mu      sync.Mutex
	fs      *vfs.FileSystem
	cwd     string
	user    string
	history []string
	now     func() time.Time
}

type command func(s *Shell, ctx context.Context, args []string) Result

var commands map[string]command

var helpText = map[string]string{
	"help":    "list commands",
	"pwd":     "print working directory",
	"ls":      "list directory contents (-l for details)",
	"cd":      "change directory",
	"cat":     "print file contents",
	"echo":    "print text, or write it with > and >>",
	"mkdir":   "create a directory",
	"touch":   "create an empty file or update its time",
	"rm":      "remove a file (-r for directories)",
	"mv":      "move or rename",
	"clear":   "clear the screen",
	"whoami":  "print the user name",
	"date":    "print the date",
	"open":    "open a file or app (-a Name)",
	"history": "show previous commands",
}

func init() {
	commands = map[string]command{
		"help":    (*Shell).help,
		"pwd":     (*Shell).pwd,
		"ls":      (*Shell).ls,
		"cd":      (*Shell).cd,
		"cat":     (*Shell).cat,
		"echo":    (*Shell).echo,
		"mkdir":   (*Shell).mkdir,
		"touch":   (*Shell).touch,
		"rm":      (*Shell).rm,
		"mv":      (*Shell).mv,
		"clear":   (*Shell).clear,
		"whoami":  (*Shell).whoami,
		"date":    (*Shell).date,
		"open":    (*Shell).open,
		"history": (*Shell).showHistory,
	}
}

// New creates a shell rooted at "/"
func New(fs *vfs.FileSystem, user string) *Shell {
	if user == "" {
		user = DefaultUser
	}
	return &Shell{fs: fs, cwd: vfs.Root, user: user, now: time.Now}
}

// Cwd returns the working directory
func (s *Shell) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

// History returns previous command lines, oldest first
func (s *Shell) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.history...)
}

// Execute runs one command line
func (s *Shell) Execute(ctx context.Context, line string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	args, err := shellquote.Split(line)
	if err != nil {
		return s.result("parse error: " + err.Error())
	}
	if len(args) == 0 {
		return s.result("")
	}
	s.history = append(s.history, strings.TrimSpace(line))
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return s.result("command not found: " + args[0])
	}
	return cmd(s, ctx, args[1:])
}

func (s *Shell) result(output string) Result {
	return Result{Output: output, Cwd: s.cwd}
}

func (s *Shell) resolve(arg string) string {
	return vfs.Resolve(s.cwd, arg)
}

func notFound(cmd, arg string) string {
	return fmt.Sprintf("%s: no such file or directory: %s", cmd, arg)
}

func (s *Shell) help(_ context.Context, _ []string) Result {
	names := make([]string, 0, len(helpText))
	for name := range helpText {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:")
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %-8s %s", name, helpText[name])
	}
	return s.result(b.String())
}

func (s *Shell) pwd(_ context.Context, _ []string) Result {
	return s.result(s.cwd)
}

func (s *Shell) ls(_ context.Context, args []string) Result {
	long := false
	target := ""
	for _, a := range args {
		if a == "-l" {
			long = true
			continue
		}
		target = a
	}

	path := s.resolve(target)
	e, ok := s.fs.Get(path)
	if !ok {
		return s.result(notFound("ls", target))
	}

	entries := []vfs.Entry{e}
	if e.IsDir() {
		entries = s.fs.ListDir(path)
	}

	lines := make([]string, 0, len(entries))
	for _, child := range entries {
		name := child.Metadata.Name
		if child.IsDir() {
			name += "/"
		}
		if !long {
			lines = append(lines, name)
			continue
		}
		kind, size := "-", humanize.Bytes(uint64(child.Metadata.Size))
		if child.IsDir() {
			kind, size = "d", fmt.Sprintf("%d items", len(child.Children))
		}
		modified := time.UnixMilli(child.Metadata.Modified).Format("Jan _2 15:04")
		lines = append(lines, fmt.Sprintf("%s %10s  %s  %s", kind, size, modified, name))
	}

	sep := "  "
	if long {
		sep = "\n"
	}
	return s.result(strings.Join(lines, sep))
}

func (s *Shell) cd(_ context.Context, args []string) Result {
	target := "/"
	if len(args) > 0 {
		target = args[0]
	}
	path := s.resolve(target)

	e, ok := s.fs.Get(path)
	switch {
	case !ok:
		return s.result(notFound("cd", target))
	case !e.IsDir():
		return s.result("cd: not a directory: " + target)
	}
	s.cwd = path
	return s.result("")
}

func (s *Shell) cat(_ context.Context, args []string) Result {
	if len(args) == 0 {
		return s.result("usage: cat <file>")
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		e, ok := s.fs.Get(s.resolve(a))
		switch {
		case !ok:
			out = append(out, notFound("cat", a))
		case e.IsDir():
			out = append(out, "cat: is a directory: "+a)
		default:
			out = append(out, e.Text())
		}
	}
	return s.result(strings.Join(out, "\n"))
}

func (s *Shell) echo(ctx context.Context, args []string) Result {
	for i, a := range args {
		if a != ">" && a != ">>" {
			continue
		}
		if i+1 >= len(args) {
			return s.result("echo: missing file after " + a)
		}
		text := strings.Join(args[:i], " ")
		target := args[i+1]
		path := s.resolve(target)
		if a == ">>" {
			if existing, ok := s.fs.ReadFile(path); ok {
				text = existing + text
			}
		}
		if !s.fs.WriteFile(ctx, path, text+"\n", "") {
			return s.result(notFound("echo", target))
		}
		return s.result("")
	}
	return s.result(strings.Join(args, " "))
}

func (s *Shell) mkdir(ctx context.Context, args []string) Result {
	if len(args) == 0 {
		return s.result("usage: mkdir <directory>")
	}
	var out []string
	for _, a := range args {
		path := s.resolve(a)
		if s.fs.Exists(path) {
			out = append(out, "mkdir: file exists: "+a)
			continue
		}
		if !s.fs.CreateDir(ctx, path) {
			out = append(out, notFound("mkdir", a))
		}
	}
	return s.result(strings.Join(out, "\n"))
}

func (s *Shell) touch(ctx context.Context, args []string) Result {
	if len(args) == 0 {
		return s.result("usage: touch <file>")
	}
	var out []string
	for _, a := range args {
		path := s.resolve(a)
		e, ok := s.fs.Get(path)
		if ok && e.IsDir() {
			continue
		}
		if !s.fs.WriteFile(ctx, path, e.Text(), "") {
			out = append(out, notFound("touch", a))
		}
	}
	return s.result(strings.Join(out, "\n"))
}

func (s *Shell) rm(ctx context.Context, args []string) Result {
	recursive := false
	var targets []string
	for _, a := range args {
		switch a {
		case "-r", "-rf", "-R":
			recursive = true
		default:
			targets = append(targets, a)
		}
	}
	if len(targets) == 0 {
		return s.result("usage: rm [-r] <path>")
	}

	var out []string
	for _, a := range targets {
		path := s.resolve(a)
		e, ok := s.fs.Get(path)
		switch {
		case !ok:
			out = append(out, notFound("rm", a))
		case path == vfs.Root:
			out = append(out, "rm: refusing to remove /")
		case e.IsDir() && !recursive:
			out = append(out, "rm: is a directory: "+a)
		default:
			s.fs.Delete(ctx, path)
			if vfs.IsWithin(s.cwd, path) {
				s.cwd = vfs.ParentPath(path)
			}
		}
	}
	return s.result(strings.Join(out, "\n"))
}

func (s *Shell) mv(ctx context.Context, args []string) Result {
	if len(args) != 2 {
		return s.result("usage: mv <source> <destination>")
	}
	src, dst := s.resolve(args[0]), s.resolve(args[1])
	if !s.fs.Exists(src) {
		return s.result(notFound("mv", args[0]))
	}
	if d, ok := s.fs.Get(dst); ok && d.IsDir() {
		dst = vfs.Join(dst, vfs.BaseName(src))
	}
	if !s.fs.Rename(ctx, src, dst) {
		return s.result(fmt.Sprintf("mv: cannot move %s to %s", args[0], args[1]))
	}
	if vfs.IsWithin(s.cwd, src) {
		s.cwd = dst + strings.TrimPrefix(s.cwd, src)
	}
	return s.result("")
}

func (s *Shell) clear(_ context.Context, _ []string) Result {
	r := s.result("")
	r.Clear = true
	return r
}

func (s *Shell) whoami(_ context.Context, _ []string) Result {
	return s.result(s.user)
}

func (s *Shell) date(_ context.Context, _ []string) Result {
	return s.result(s.now().Format(time.UnixDate))
}

func (s *Shell) open(_ context.Context, args []string) Result {
	if len(args) == 2 && args[0] == "-a" {
		a, ok := apps.Lookup(args[1])
		if !ok {
			return s.result("open: unable to find application named " + args[1])
		}
		r := s.result("")
		r.Open = &OpenRequest{App: a}
		return r
	}
	if len(args) != 1 {
		return s.result("usage: open <path> | open -a <app>")
	}

	path := s.resolve(args[0])
	e, ok := s.fs.Get(path)
	if !ok {
		return s.result(notFound("open", args[0]))
	}
	r := s.result("")
	if a, ok := apps.Lookup(vfs.BaseName(path)); ok && !e.IsDir() && strings.HasSuffix(path, ".app") {
		r.Open = &OpenRequest{App: a}
		return r
	}
	r.Open = &OpenRequest{App: apps.ForPath(path, e.IsDir()), Path: path}
	return r
}

func (s *Shell) showHistory(_ context.Context, _ []string) Result {
	lines := make([]string, len(s.history))
	for i, h := range s.history {
		lines[i] = fmt.Sprintf("%4d  %s", i+1, h)
	}
	return s.result(strings.Join(lines, "\n"))
}
