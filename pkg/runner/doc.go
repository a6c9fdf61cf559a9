/*
Package runner implements the interactive loop that presents a questionnaire
and collects answers.

It is the bridge between the stateless quiztree.Engine and a respondent. The
runner asks the current question through a pluggable IOHandler, maps the reply
to an option, advances the run, persists it when a store is configured, and
finally prints the resolved result.

# Key Components

  - Runner: the loop. Understands "back", "exit" and "quit" besides option selections.
  - TextHandler: numbered options on a terminal; prints "position: content" at the end.
  - JSONHandler: JSON Lines for programmatic use.
  - CleanAnswer: trims an answer and bounds it to the size of an option key.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("user-1"),
		runner.WithStore(file.New("")),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	res, err := r.Run(ctx, engine)
*/
package runner
