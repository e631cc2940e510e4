// Package terminal implements the Terminal app's toy shell. Commands run
// against the virtual file system with a per-shell working directory;
// nothing touches the host.
//
// Errors are plain output lines in the shape of a real shell
// ("cat: no such file or directory: x", "command not found: foo") rather
// than Go errors, since the window just prints them.
//
// Example:
//
//	sh := terminal.New(fs, "guest")
//	sh.Execute(ctx, "cd Documents")
//	res := sh.Execute(ctx, "ls -l")
//	fmt.Println(res.Output)
package terminal
