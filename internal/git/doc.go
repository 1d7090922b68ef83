// Package git runs git as a subprocess against a repository directory.
//
// A Runner is bound to one repository directory. The directory is passed
// to each child process as its working directory; the gitfeed process
// never calls chdir, so concurrent invocations cannot observe each other.
//
//	runner, err := git.NewRunner("/srv/mirrors/project.git", git.WithTimeout(30*time.Second))
//
// # Invoking git
//
// Exec captures stdout and stderr and reports the exit code without
// treating a non-zero exit as an error. Run expects success:
//
//	res, err := runner.Exec(ctx, "show-ref")   // res.ExitCode may be 1
//	sha, err := runner.Run(ctx, "rev-parse", "HEAD")
//
// # Reading history
//
//	refs, err := runner.ListRefs(ctx, git.DefaultRemote) // hash -> branch names
//	raw, err := runner.Log(ctx, git.Window{Since: &since}) // at most MaxLogEntries records
//	err = runner.Fetch(ctx, "origin")
//
// GoGitRefs is an alternative RefReader that reads ref storage with go-git.
//
// # Errors
//
// Failed invocations return *ProcessFailure carrying the arguments, exit
// code, stderr, a FailureKind (exited, timeout, canceled, not-started) and a
// FailureReason derived from stderr:
//
//	if git.IsTimeout(err) { ... }
//	var pf *git.ProcessFailure
//	if errors.As(err, &pf) && pf.Reason == git.ReasonAuthRequired { ... }
package git
