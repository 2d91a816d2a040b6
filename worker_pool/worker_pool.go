package worker_pool

import (
	"sync"
	"time"

	"github.com/cloudgovern/steward/conf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	maxNumberOfWorker        = 12
	minNumberOfWorker        = 4
	queueSize                = 0
	keepAliveTimeInMillis    = 6000
	monitoringPeriodInMillis = 15000
)

// Job is one unit of work submitted to the pool.
type Job interface {
	Id() string
	Execute() error
}

type WorkerPool interface {
	Start() error
	Stop() error
	Submit(job Job) (bool, error)
	AvailableWorkers() int32
}

type workerPool struct {
	poolConf *conf.PoolConf

	jobQueue  chan Job
	quit      chan struct{}
	isRunning bool

	workersWg   *sync.WaitGroup
	startStopMu *sync.RWMutex

	countMu       *sync.RWMutex
	currentWorker int32
	idleWorker    int32
}

func New(poolConf *conf.PoolConf) WorkerPool {

	if poolConf.MaxNumberOfWorker <= 0 {
		logrus.Infof("Max number of workers should be greater than zero, default value[%d] is set.", maxNumberOfWorker)
		poolConf.MaxNumberOfWorker = maxNumberOfWorker
	}

	if poolConf.MinNumberOfWorker < 0 {
		logrus.Infof("Min number of workers cannot be lesser than zero, default value[%d] is set.", minNumberOfWorker)
		poolConf.MinNumberOfWorker = minNumberOfWorker
	}

	if poolConf.MinNumberOfWorker > poolConf.MaxNumberOfWorker {
		logrus.Infof("Min number of workers cannot be greater than max number of workers, min value is decreased to max value[%d].", poolConf.MaxNumberOfWorker)
		poolConf.MinNumberOfWorker = poolConf.MaxNumberOfWorker
	}

	if poolConf.QueueSize < 0 {
		logrus.Infof("Queue size of the pool cannot be lesser than zero, default value[%d] is set.", queueSize)
		poolConf.QueueSize = queueSize
	}

	if poolConf.KeepAliveTimeInMillis <= 0 {
		logrus.Infof("Keep alive time should be greater than zero, default value[%d ms.] is set.", keepAliveTimeInMillis)
		poolConf.KeepAliveTimeInMillis = keepAliveTimeInMillis
	}

	if poolConf.MonitoringPeriodInMillis <= 0 {
		logrus.Infof("Monitoring period of the pool should be greater than zero, default value[%d ms.] is set.", monitoringPeriodInMillis)
		poolConf.MonitoringPeriodInMillis = monitoringPeriodInMillis
	}

	return &workerPool{
		jobQueue:    make(chan Job, poolConf.QueueSize),
		quit:        make(chan struct{}),
		poolConf:    poolConf,
		workersWg:   &sync.WaitGroup{},
		startStopMu: &sync.RWMutex{},
		countMu:     &sync.RWMutex{},
		isRunning:   false,
	}
}

func (wp *workerPool) Start() error {
	defer wp.startStopMu.Unlock()
	wp.startStopMu.Lock()

	if wp.isRunning {
		return errors.New("Worker pool is already running.")
	}

	go wp.monitor(wp.poolConf.MonitoringPeriodInMillis * time.Millisecond)

	wp.isRunning = true
	wp.spawnInitialWorkers(wp.poolConf.MinNumberOfWorker)
	return nil
}

func (wp *workerPool) Stop() error {
	defer wp.startStopMu.Unlock()
	wp.startStopMu.Lock()

	if !wp.isRunning {
		return errors.New("Worker pool is not running.")
	}
	wp.isRunning = false

	logrus.Infof("Worker pool is stopping.")
	close(wp.quit)
	close(wp.jobQueue)
	wp.workersWg.Wait()
	logrus.Infof("Worker pool has stopped.")

	return nil
}

func (wp *workerPool) Submit(job Job) (isSubmitted bool, err error) {

	defer wp.startStopMu.RUnlock()
	wp.startStopMu.RLock()

	if !wp.isRunning {
		return false, errors.New("Worker pool is not running.")
	}

	logrus.Debugf("Job[%s] is being submitted.", job.Id())

	select {
	case wp.jobQueue <- job:
		return true, nil
	default:
		if wp.poolConf.MaxNumberOfWorker == wp.poolConf.MinNumberOfWorker {
			return false, nil
		}

		if wp.incrementCurrentWorkerIfBelowMax() {
			wp.workersWg.Add(1)
			go func() {
				worker := newWorker(wp)
				worker.work(job)
			}()
			return true, nil
		}

		logrus.Debugf("Job[%s] could not be submitted.", job.Id())
		return false, nil
	}
}

func (wp *workerPool) AvailableWorkers() int32 {
	defer wp.countMu.RUnlock()
	wp.countMu.RLock()
	return wp.poolConf.MaxNumberOfWorker - wp.currentWorker + wp.idleWorker
}

func (wp *workerPool) monitor(period time.Duration) {

	logrus.Infof("Worker pool is running with; Min Worker: %d, Max Worker: %d, Queue Size: %d", wp.poolConf.MinNumberOfWorker, wp.poolConf.MaxNumberOfWorker, cap(wp.jobQueue))

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			wp.countMu.RLock()
			logrus.Debugf("Current Worker: %d, Idle Worker: %d, Queue Size: %d, Queue load: %d", wp.currentWorker, wp.idleWorker, cap(wp.jobQueue), len(wp.jobQueue))
			wp.countMu.RUnlock()
		case <-wp.quit:
			return
		}
	}
}

func (wp *workerPool) spawnInitialWorkers(num int32) {

	wp.addCurrentAndIdleWorker(num)
	wp.workersWg.Add(int(num))

	for i := int32(0); i < num; i++ {
		worker := newWorker(wp)
		go worker.work(nil)
	}
}

func (wp *workerPool) addCurrentAndIdleWorker(num int32) {
	defer wp.countMu.Unlock()
	wp.countMu.Lock()
	wp.currentWorker += num
	wp.idleWorker += num
}

func (wp *workerPool) addIdleWorker(num int32) {
	defer wp.countMu.Unlock()
	wp.countMu.Lock()
	wp.idleWorker += num
}

func (wp *workerPool) incrementCurrentWorkerIfBelowMax() bool {
	defer wp.countMu.Unlock()
	wp.countMu.Lock()
	if wp.currentWorker < wp.poolConf.MaxNumberOfWorker {
		wp.currentWorker++
		wp.idleWorker++
		return true
	}
	return false
}

func (wp *workerPool) decrementCurrentWorkerIfAboveMin() bool {
	defer wp.countMu.Unlock()
	wp.countMu.Lock()
	if wp.currentWorker > wp.poolConf.MinNumberOfWorker {
		wp.currentWorker--
		wp.idleWorker--
		return true
	}
	return false
}
