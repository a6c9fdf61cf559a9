package quiztree_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/pkg/dsl"
)

// ExampleNew_memory demonstrates the Engine with a questionnaire built in code.
func ExampleNew_memory() {
	b := dsl.New("Does your web project need review?")
	b.Question("1", "Is it public facing?").
		Option("yes", "public").Label("Yes").Go("2").
		Option("no", "internal").Label("No")
	b.Question("2", "Does it use a new domain?").
		Option("yes", "new").Label("Yes").
		Option("no", "same").Label("No")
	b.Pattern("public|new|", "Full review required.", "Required").
		Pattern("internal", "No review needed.", "Not required")

	loader, err := b.Loader()
	if err != nil {
		log.Fatal(err)
	}

	engine, err := quiztree.New("", quiztree.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state := engine.Start(ctx, "example")

	for _, key := range []string{"yes", "yes"} {
		state, _, err = engine.Advance(ctx, state, key)
		if err != nil {
			log.Fatal(err)
		}
	}

	res := engine.Resolve(ctx, state)
	fmt.Printf("%s: %s\n", res.Result.Position, res.Result.Content)
	// Output: Required: Full review required.
}

// ExampleEngine_NewRun shows the stateful single-run API and the last-answer fallback.
func ExampleEngine_NewRun() {
	b := dsl.New("")
	b.Question("1", "Public?").
		Option("yes", "public").Go("2").
		Option("no", "internal")
	b.Question("2", "New domain?").
		Option("yes", "new").
		Option("no", "same")
	b.Pattern("same", "Light review.", "")

	loader, _ := b.Loader()
	engine, _ := quiztree.New("", quiztree.WithLoader(loader))

	ctx := context.Background()
	run := engine.NewRun("example")
	_, _ = run.Advance(ctx, "yes")
	_, _ = run.Advance(ctx, "no")

	res := run.Result(ctx)
	fmt.Println(run.Trail().Key())
	fmt.Printf("%s: %s (%s)\n", res.Result.Position, res.Result.Content, res.Tier)
	// Output:
	// public|same|
	// unknown: Light review. (last_answer)
}
