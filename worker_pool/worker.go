package worker_pool

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type worker struct {
	id         uuid.UUID
	workerPool *workerPool
}

func newWorker(workerPool *workerPool) worker {
	return worker{
		workerPool: workerPool,
		id:         uuid.New(),
	}
}

func (w *worker) doJob(job Job) {
	defer w.workerPool.addIdleWorker(1)
	w.workerPool.addIdleWorker(-1)

	logrus.Debugf("Job[%s] is picked by worker[%s].", job.Id(), w.id.String())

	err := job.Execute()
	if err != nil {
		logrus.Errorf("Job[%s] failed: %s", job.Id(), err.Error())
		return
	}

	logrus.Debugf("Job[%s] has been processed by worker[%s].", job.Id(), w.id.String())
}

func (w *worker) work(initialJob Job) {

	logrus.Debugf("Worker[%s] is spawned.", w.id.String())
	defer w.workerPool.workersWg.Done()

	if initialJob != nil {
		w.doJob(initialJob)
	}

	if w.workerPool.poolConf.MinNumberOfWorker == w.workerPool.poolConf.MaxNumberOfWorker {
		w.workFixed()
	} else {
		w.workElastic()
	}
}

// workElastic drains the job queue but lets the worker kill itself when
// it stays idle longer than the keep-alive period and the pool is above
// its minimum size.
func (w *worker) workElastic() {

	keepAliveTime := w.workerPool.poolConf.KeepAliveTimeInMillis * time.Millisecond
	timer := time.NewTimer(keepAliveTime)
	defer timer.Stop()

	for {
		select {
		case job, isOpen := <-w.workerPool.jobQueue:
			if !isOpen {
				w.workerPool.addCurrentAndIdleWorker(-1)
				logrus.Debugf("Worker[%s] has done its job.", w.id.String())
				return
			}

			w.doJob(job)

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(keepAliveTime)
		case <-timer.C:
			if w.workerPool.decrementCurrentWorkerIfAboveMin() {
				logrus.Debugf("Worker[%s] has killed itself after keep-alive timeout.", w.id.String())
				return
			}
			timer.Reset(keepAliveTime)
		}
	}
}

func (w *worker) workFixed() {

	for job := range w.workerPool.jobQueue {
		w.doJob(job)
	}

	w.workerPool.addCurrentAndIdleWorker(-1)
	logrus.Debugf("Worker[%s] has done its job.", w.id.String())
}
