package inbound

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/notification/usecase"
)

type ucConsumer interface {
	HandleTriggerEvent(ctx context.Context, in usecase.HandleTriggerEventInput) (int, error)
	ProcessQueue(ctx context.Context, in usecase.ProcessQueueInput) (*usecase.ProcessQueueOutput, error)
}

type ucAdmin interface {
	ListTriggers(ctx context.Context) ([]entity.TriggerInfo, error)
	SendTest(ctx context.Context, in usecase.SendTestInput) (*usecase.SendTestOutput, error)
	Preview(ctx context.Context, in usecase.PreviewInput) (*entity.View, error)
	TestSettings(ctx context.Context, in usecase.TriggerTypeInput) ([]entity.TestSetting, error)
	GetSubscriberSettings(ctx context.Context, in usecase.TriggerTypeInput) (*usecase.SubscriberSettingsOutput, error)
	UpdateSubscriberSettings(ctx context.Context, in usecase.UpdateSubscriberSettingsInput) error
	ListRecords(ctx context.Context, in usecase.ListRecordsInput) ([]entity.Record, error)
	MarkRead(ctx context.Context, id int64) error
}

type uc interface {
	ucConsumer
	ucAdmin
}
