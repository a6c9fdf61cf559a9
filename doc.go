/*
Package quiztree runs branching multiple-choice questionnaires and resolves the
answers given to a result.

A questionnaire is a directed graph of questions. Each option of a question
carries an answer-value and, optionally, the id of the next question. Choosing
an option without a next question finishes the run. The answer-values collected
along the way form a trail that is encoded as "a1|a2|...|an|" and looked up in a
pattern table: first the full key, then the last answer alone, and finally a
fixed fallback.

# Usage

	eng, err := quiztree.New("./questionnaire.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state := eng.Start(ctx, "session-123")

	for !state.Finished {
		q, _ := eng.Current(state)
		fmt.Println(q.Prompt)

		key := ask(q.OptionKeys()) // your I/O
		next, _, err := eng.Advance(ctx, state, key)
		if err != nil {
			fmt.Println(err) // unknown option: ask again
			continue
		}
		state = next
	}

	res := eng.Resolve(ctx, state)
	fmt.Printf("%s: %s\n", res.Result.Position, res.Result.Content)

The Engine never stores runs. Hosts keep the State themselves or use
pkg/session with one of the ports.StateStore adapters. For a single
respondent, NewRun offers a stateful wrapper.
*/
package quiztree
