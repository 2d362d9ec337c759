/*
Package raceline processes live race events for one race session.

# Overview

A Processor receives events one at a time. For every event it:

 1. appends the event to the session log and bumps the matching counter
    as one atomic step,
 2. resolves the driver on the roster,
 3. asks the event type's Handler for its Effects,
 4. sends the team notification, if any,
 5. publishes the highlight summary, if any.

Process never returns an error and never panics for any event value.
Lookup misses, handler panics, and publish failures are logged and the
event still counts.

# Basic Usage

	r := roster.MustNew(roster.MonacoDrivers()...)
	sess, err := session.New(roster.Monaco2025, r)
	if err != nil {
	    return err
	}

	proc, err := raceline.NewProcessor(sess,
	    raceline.WithNotifier(notify.NewConsoleRouter(os.Stdout, notify.DefaultTeams(), logger)),
	    raceline.WithPublisher(highlight.NewLogPublisher(logger)),
	    raceline.WithLogger(logger),
	)
	if err != nil {
	    return err
	}

	proc.Process(ctx, event.Overtake{
	    Header:         event.NewHeader("ov-1", "monaco-2025", "leclerc"),
	    TargetDriverID: "hamilton",
	    LapNumber:      2,
	})

	snap := proc.End()
	fmt.Print(report.Render(snap))

# Handlers

Dispatch is a table from event.Type to Handler. A Handler names the
counter its events increment and computes Effects without doing any I/O.
Replace or add handlers with WithHandler.

Effects computation runs through middleware added with Use or
WithMiddleware. RecoveryMiddleware is always outermost: a panicking
handler degrades to no effects. A notifier or publisher that panics is
logged like a failed delivery and the event's remaining effects still run.

# Unknown Drivers

Events whose driver is not on the roster are still logged and counted.
The notification is always skipped. Under PolicySkipNotification (the
default) the highlight is still published because it only carries the
driver id; PolicySkipAll suppresses it too.
*/
package raceline
