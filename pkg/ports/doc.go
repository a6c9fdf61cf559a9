/*
Package ports defines the driven ports (interfaces) for the quiztree engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various questionnaire sources and storage backends.

# Key Interfaces

  - QuestionnaireLoader: Responsible for loading a questionnaire (e.g., from a file or memory).
  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
