// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// State is the agent loop's execution state.
type State int

const (
	// StateAwaitingCompletion means the loop is about to ask the provider
	// for the next assistant message.
	StateAwaitingCompletion State = iota

	// StateExecutingTools means the provider requested tool calls that
	// have not all been dispatched yet.
	StateExecutingTools

	// StateDone means a final answer (or the fallback) was produced.
	StateDone

	// StateFailed means an unrecoverable error aborted the turn.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingCompletion:
		return "awaiting_completion"
	case StateExecutingTools:
		return "executing_tools"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	// DefaultMaxRounds is the default tool-call round budget per turn.
	DefaultMaxRounds = 10

	// DefaultFallbackAnswer is returned when the round budget is exhausted.
	DefaultFallbackAnswer = "I could not find the result, please try again."
)

// Loop drives the request/response/tool-execution cycle for one user turn:
// ask the provider for a completion, dispatch any requested tool calls, feed
// the results back, and repeat until the model produces a plain answer or
// the round budget runs out.
//
// All collaborators are explicit constructor arguments; a Loop holds no
// ambient state beyond the per-conversation locks that serialize turns on
// the same conversation id.
type Loop struct {
	provider     CompletionProvider
	registry     *Registry
	store        ConversationStore
	instructions string
	maxRounds    int
	fallback     string
	parallel     bool
	baseOpts     CompleteOptions
	locks        keyedMutex
}

// LoopOption configures a [Loop] via [NewLoop].
type LoopOption func(*Loop)

// WithInstructions sets the system prompt seeded into fresh conversations.
func WithInstructions(instructions string) LoopOption {
	return func(l *Loop) { l.instructions = instructions }
}

// WithMaxRounds overrides the tool-call round budget per turn.
func WithMaxRounds(n int) LoopOption {
	return func(l *Loop) { l.maxRounds = n }
}

// WithFallbackAnswer overrides the answer returned on budget exhaustion.
func WithFallbackAnswer(text string) LoopOption {
	return func(l *Loop) { l.fallback = text }
}

// WithParallelTools dispatches the tool calls of a round concurrently.
// Results are still appended to the conversation in request order.
func WithParallelTools() LoopOption {
	return func(l *Loop) { l.parallel = true }
}

// WithCompleteOptions sets base model options (model id, temperature, ...)
// applied to every provider call. Tools and tool choice are managed by the
// loop and overwritten per call.
func WithCompleteOptions(opts CompleteOptions) LoopOption {
	return func(l *Loop) { l.baseOpts = opts }
}

// NewLoop creates a Loop from its collaborators.
func NewLoop(provider CompletionProvider, registry *Registry, store ConversationStore, opts ...LoopOption) *Loop {
	l := &Loop{
		provider:  provider,
		registry:  registry,
		store:     store,
		maxRounds: DefaultMaxRounds,
		fallback:  DefaultFallbackAnswer,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Turn executes one full user turn for the given conversation id and returns
// the assistant's final answer.
//
// The conversation is persisted only when the turn completes (final answer
// or fallback); a provider failure leaves the stored conversation untouched.
// Concurrent turns on the same conversation id are serialized; turns on
// different ids proceed independently.
func (l *Loop) Turn(ctx context.Context, conversationID, userMessage string) (string, error) {
	unlock := l.locks.lock(conversationID)
	defer unlock()

	history, err := l.store.Get(ctx, conversationID, l.instructions)
	if err != nil {
		return "", fmt.Errorf("load conversation: %w", err)
	}
	messages := append(history, NewUserMessage(userMessage))

	var (
		pending []ToolCallRequest
		answer  string
		turnErr error
	)
	rounds := 0
	state := StateAwaitingCompletion

	for state != StateDone && state != StateFailed {
		switch state {
		case StateAwaitingCompletion:
			if rounds > l.maxRounds {
				slog.WarnContext(ctx, "tool-call round budget exhausted",
					"conversation_id", conversationID,
					"rounds", rounds,
				)
				if err := l.store.Save(ctx, conversationID, messages); err != nil {
					turnErr = fmt.Errorf("save conversation: %w", err)
					state = StateFailed
					continue
				}
				answer = l.fallback
				state = StateDone
				continue
			}
			if err := ctx.Err(); err != nil {
				turnErr = err
				state = StateFailed
				continue
			}

			completion, err := l.provider.Complete(ctx, messages, l.completeOptions())
			if err != nil {
				turnErr = err
				state = StateFailed
				continue
			}
			messages = append(messages, completion.Assistant)

			if text, ok := completion.FinalAnswer(); ok {
				if err := l.store.Save(ctx, conversationID, messages); err != nil {
					turnErr = fmt.Errorf("save conversation: %w", err)
					state = StateFailed
					continue
				}
				answer = text
				state = StateDone
				continue
			}

			slog.DebugContext(ctx, "tool calls requested",
				"conversation_id", conversationID,
				"round", rounds,
				"call_count", len(completion.ToolCalls()),
			)
			pending = completion.ToolCalls()
			state = StateExecutingTools

		case StateExecutingTools:
			results, err := l.executeTools(ctx, pending)
			if err != nil {
				// Cancelled mid-round: in-flight results are discarded.
				turnErr = err
				state = StateFailed
				continue
			}
			messages = append(messages, results...)
			pending = nil
			rounds++
			state = StateAwaitingCompletion
		}
	}

	if state == StateFailed {
		return "", turnErr
	}
	return answer, nil
}

func (l *Loop) completeOptions() *CompleteOptions {
	opts := l.baseOpts
	opts.Tools = l.registry.Tools()
	opts.ToolChoice = ""
	opts.ResponseFormat = nil
	return &opts
}

// executeTools dispatches every call of a round and returns the resulting
// tool messages in request order. It errs only on cancellation.
func (l *Loop) executeTools(ctx context.Context, calls []ToolCallRequest) ([]Message, error) {
	if l.parallel && len(calls) > 1 {
		return l.executeToolsParallel(ctx, calls)
	}

	results := make([]Message, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if msg, ok := l.dispatchCall(ctx, call); ok {
			results = append(results, msg)
		}
	}
	return results, nil
}

func (l *Loop) executeToolsParallel(ctx context.Context, calls []ToolCallRequest) ([]Message, error) {
	type outcome struct {
		msg Message
		ok  bool
	}
	outcomes := make([]outcome, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call ToolCallRequest) {
			defer wg.Done()
			msg, ok := l.dispatchCall(ctx, call)
			outcomes[i] = outcome{msg: msg, ok: ok}
		}(i, call)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		// Calls already in flight run to completion in the background;
		// their results are discarded.
		return nil, ctx.Err()
	}

	// Sequence by request order, not completion time, so tool-call id
	// correlation stays unambiguous on the next round.
	results := make([]Message, 0, len(calls))
	for _, o := range outcomes {
		if o.ok {
			results = append(results, o.msg)
		}
	}
	return results, nil
}

// dispatchCall runs one tool call. Unknown tools produce no message; any
// other failure becomes the tool message's content so the model can react
// to it on the next round.
func (l *Loop) dispatchCall(ctx context.Context, call ToolCallRequest) (Message, bool) {
	content, err := l.registry.Dispatch(ctx, call.Name, call.Arguments)
	switch {
	case errors.Is(err, ErrUnknownTool):
		slog.WarnContext(ctx, "unknown tool requested",
			"tool", call.Name,
			"call_id", call.ID,
		)
		return Message{}, false
	case err != nil:
		slog.WarnContext(ctx, "tool dispatch failed",
			"tool", call.Name,
			"call_id", call.ID,
			"error", err,
		)
		return NewToolMessage(call.ID, call.Name, "error: "+err.Error()), true
	}
	return NewToolMessage(call.ID, call.Name, content), true
}

// keyedMutex serializes critical sections per string key. Entries are
// reference counted and removed once unused, so idle conversation ids cost
// nothing.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedLock{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
