/*
Package session serialises access to stored questionnaire runs.

Answers for the same session are applied one at a time: a local mutex per
session guards a single process, and an optional ports.DistributedLocker extends
that guarantee across replicas sharing one store.
*/
package session
