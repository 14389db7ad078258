package store

import (
	"log"
	"sync"

	"github.com/sirsjg/traction/client"
	"github.com/sirsjg/traction/state"
)

// opKind enumerates the remote write shapes an action can map to.
type opKind int

const (
	opBatchUpsert opKind = iota
	opUpsertProject
	opUpsertTask
	opDeleteProject
)

// remoteOp is a fully-prepared remote write. It is built from state
// snapshots at dispatch time so the background worker never reads live
// state; out-of-order completion is harmless because every write keys
// on record ids, not positions.
type remoteOp struct {
	kind          opKind
	batch         client.BatchRequest
	project       client.ProjectRecord
	task          client.TaskRecord
	deleteID      string
	deleteTaskIDs []string
}

// buildRemoteOp translates a committed action into its remote write.
// Actions that only touch view state produce no write.
func buildRemoteOp(prev, cur state.AppState, action state.Action, ownerID string) (remoteOp, bool) {
	switch a := action.(type) {
	case state.AddProject:
		return remoteOp{kind: opBatchUpsert, batch: projectBatch(a.Project, ownerID)}, true

	case state.DeleteProject:
		// Cascade: collect the task ids from the pre-delete snapshot
		// so the remote task records go with the project.
		var taskIDs []string
		for _, p := range prev.Projects {
			if p.ID == a.ProjectID {
				for _, t := range p.Tasks {
					taskIDs = append(taskIDs, t.ID)
				}
				break
			}
		}
		return remoteOp{kind: opDeleteProject, deleteID: a.ProjectID, deleteTaskIDs: taskIDs}, true

	case state.CompleteTask:
		return taskUpsert(cur, a.ProjectID, a.TaskID, ownerID)

	case state.UncompleteTask:
		return taskUpsert(cur, a.ProjectID, a.TaskID, ownerID)

	case state.UpdateTask:
		return taskUpsert(cur, a.ProjectID, a.TaskID, ownerID)

	case state.UpdateProject:
		return projectUpsert(cur, a.ProjectID, ownerID)

	case state.ReorderTasks:
		for _, p := range cur.Projects {
			if p.ID == a.ProjectID {
				records := make([]client.TaskRecord, 0, len(p.Tasks))
				for _, t := range p.Tasks {
					records = append(records, client.ToTaskRecord(t, p.ID, ownerID))
				}
				return remoteOp{kind: opBatchUpsert, batch: client.BatchRequest{Tasks: records}}, true
			}
		}
		return remoteOp{}, false

	case state.CompleteProject:
		return projectUpsert(cur, a.ProjectID, ownerID)

	case state.ReopenProject:
		return projectUpsert(cur, a.ProjectID, ownerID)
	}

	return remoteOp{}, false
}

// projectBatch prepares the batch write for a newly created project
// and its tasks.
func projectBatch(p state.Project, ownerID string) client.BatchRequest {
	batch := client.BatchRequest{
		Projects: []client.ProjectRecord{client.ToProjectRecord(p, ownerID)},
	}
	for _, t := range p.Tasks {
		batch.Tasks = append(batch.Tasks, client.ToTaskRecord(t, p.ID, ownerID))
	}
	return batch
}

func taskUpsert(s state.AppState, projectID, taskID, ownerID string) (remoteOp, bool) {
	for _, p := range s.Projects {
		if p.ID != projectID {
			continue
		}
		for _, t := range p.Tasks {
			if t.ID == taskID {
				return remoteOp{kind: opUpsertTask, task: client.ToTaskRecord(t, p.ID, ownerID)}, true
			}
		}
	}
	return remoteOp{}, false
}

func projectUpsert(s state.AppState, projectID, ownerID string) (remoteOp, bool) {
	for _, p := range s.Projects {
		if p.ID == projectID {
			return remoteOp{kind: opUpsertProject, project: client.ToProjectRecord(p, ownerID)}, true
		}
	}
	return remoteOp{}, false
}

// syncer consumes committed actions and attempts the matching remote
// writes. Failures are logged and dropped: the optimistic local state
// is never reverted and callers are never told. Writes are not
// cancellable once queued.
type syncer struct {
	remote *client.Client
	ops    chan remoteOp
	wg     sync.WaitGroup

	closeOnce sync.Once
}

func newSyncer(remote *client.Client) *syncer {
	s := &syncer{
		remote: remote,
		ops:    make(chan remoteOp, 64),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *syncer) enqueue(op remoteOp) {
	select {
	case s.ops <- op:
	default:
		// Queue full: apply the write inline rather than drop it.
		// Dispatch latency is preferable to silent data loss here.
		s.apply(op)
	}
}

func (s *syncer) run() {
	defer s.wg.Done()
	for op := range s.ops {
		s.apply(op)
	}
}

func (s *syncer) apply(op remoteOp) {
	if s.remote == nil {
		return
	}

	var err error
	switch op.kind {
	case opBatchUpsert:
		err = s.remote.BatchUpsert(op.batch)
	case opUpsertProject:
		err = s.remote.UpsertProject(op.project)
	case opUpsertTask:
		err = s.remote.UpsertTask(op.task)
	case opDeleteProject:
		err = s.remote.DeleteProjectCascade(op.deleteID, op.deleteTaskIDs)
	}

	if err != nil {
		log.Printf("syncer: remote write failed: %v", err)
	}
}

// close drains queued writes and stops the worker.
func (s *syncer) close() {
	s.closeOnce.Do(func() {
		close(s.ops)
	})
	s.wg.Wait()
}
