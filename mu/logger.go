package mu

import "github.com/go-zoox/logger"

// restyLogger routes resty's internal messages to go-zoox/logger.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logger.Errorf("[mu][resty] "+format, v...)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logger.Warnf("[mu][resty] "+format, v...)
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logger.Debugf("[mu][resty] "+format, v...)
}
