package norvik

import (
	"github.com/norvikdb/norvik-go/pkg/logger"
)

//go:generate mockgen -source interfaces_test.go -destination mocks_test.go -package norvik

type bookmarkManagerAPI interface {
	BookmarkManager
}

type loggerImpl interface {
	logger.Logger
}
