/*
Package domain contains the core models of the questionnaire engine.

It defines the question graph, the pattern table and the run state. The package
is pure and free of I/O; adapters and hosts build on top of it.

# Key Entities

  - Question / Option: a node of the graph and its ordered, selectable answers.
  - QuestionGraph: read-only view over all questions, with a start question.
  - PatternTable: read-only mapping from trail keys to results.
  - Trail: the ordered answer-values of a run, encoded as "a|b|c|".
  - State: the snapshot of one run (current question, trail, finished flag).
*/
package domain
