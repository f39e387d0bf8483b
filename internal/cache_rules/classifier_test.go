package cache_rules

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"go-resolver-cache/internal/interfaces/mock"
)

func TestNewClassifier(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockTTLRulesConfig(ctrl)

	classifier := NewClassifier(logger, mockConfig)

	if classifier == nil {
		t.Fatal("NewClassifier returned nil")
	}
	if classifier.logger != logger {
		t.Error("Logger not set correctly")
	}
	if classifier.configTTL != mockConfig {
		t.Error("ConfigTTL not set correctly")
	}
}

func TestGetTtl_Override(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockTTLRulesConfig(ctrl)
	classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)

	mockConfig.EXPECT().GetTtlOverride("price:ETH/USD").Return(time.Minute, true)

	if got := classifier.GetTtl("price", "ETH/USD"); got != time.Minute {
		t.Errorf("GetTtl() = %v, want 1m", got)
	}
}

func TestGetTtl_NamespaceDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockTTLRulesConfig(ctrl)
	classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)

	mockConfig.EXPECT().GetTtlOverride("geo:lot-7").Return(time.Duration(0), false)
	mockConfig.EXPECT().GetTtlForNamespace("geo").Return(30 * time.Minute)

	if got := classifier.GetTtl("geo", "lot-7"); got != 30*time.Minute {
		t.Errorf("GetTtl() = %v, want 30m", got)
	}
}

func TestGetTtl_EmptyIDSkipsOverrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockTTLRulesConfig(ctrl)
	classifier := NewClassifier(zaptest.NewLogger(t), mockConfig)

	mockConfig.EXPECT().GetTtlForNamespace("narrative").Return(30 * time.Minute)

	if got := classifier.GetTtl("narrative", ""); got != 30*time.Minute {
		t.Errorf("GetTtl() = %v, want 30m", got)
	}
}

func TestGetTtl_UnknownNamespace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mock.NewMockTTLRulesConfig(ctrl)
	classifier := NewClassifier(nil, mockConfig)

	mockConfig.EXPECT().GetTtlOverride("weather:x").Return(time.Duration(0), false)
	mockConfig.EXPECT().GetTtlForNamespace("weather").Return(time.Duration(0))

	if got := classifier.GetTtl("weather", "x"); got != 0 {
		t.Errorf("GetTtl() = %v, want 0", got)
	}
}
