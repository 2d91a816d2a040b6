package util

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func Min(x, y int64) int64 {
	if x > y {
		return y
	}
	return x
}

// CheckLogFile recreates the rotating log file when it disappears
// underneath the logger, e.g. when log directories are cleaned up
// externally.
func CheckLogFile(logger *lumberjack.Logger, period time.Duration) {

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := os.Stat(logger.Filename); os.IsNotExist(err) {
			if err := logger.Rotate(); err != nil {
				logrus.Warnf("Log file[%s] could not be recreated: %s", logger.Filename, err.Error())
			}
		}
	}
}

func CreateTempTestFile(content []byte, fileExtension string) (string, error) {

	tempFile, err := os.CreateTemp("", "*"+fileExtension)
	if err != nil {
		return "", err
	}

	defer tempFile.Close()

	if _, err := tempFile.Write(content); err != nil {
		return "", err
	}

	return tempFile.Name(), nil
}
