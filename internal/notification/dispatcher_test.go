package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/huseyingedek/geras-api/internal/notification"
	"github.com/huseyingedek/geras-api/internal/notification/mocks"
)

func TestDispatcherSendsQueuedMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)

	msg := notification.Message{Kind: notification.KindCreated, AppointmentID: 9, Phone: "+905551112233", Body: "hi"}
	sender.EXPECT().Send(gomock.Any(), msg).Return(nil).Times(1)

	d := notification.NewDispatcher(sender, 4)
	d.Notify(msg)
	d.Close()
}

func TestDispatcherLogsFailuresAndContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)

	first := notification.Message{Kind: notification.KindCancelled, AppointmentID: 1}
	second := notification.Message{Kind: notification.KindDeleted, AppointmentID: 2}

	gomock.InOrder(
		sender.EXPECT().Send(gomock.Any(), first).Return(errors.New("provider down")),
		sender.EXPECT().Send(gomock.Any(), second).Return(nil),
	)
	sender.EXPECT().Channel().Return("mock").AnyTimes()

	d := notification.NewDispatcher(sender, 4)
	d.Notify(first)
	d.Notify(second)
	d.Close()
}

func TestFanoutJoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	ok := mocks.NewMockSender(ctrl)
	bad := mocks.NewMockSender(ctrl)

	msg := notification.Message{Kind: notification.KindReminder}
	ok.EXPECT().Send(gomock.Any(), msg).Return(nil)
	bad.EXPECT().Send(gomock.Any(), msg).Return(errors.New("smtp refused"))

	err := notification.Fanout{ok, bad}.Send(context.Background(), msg)
	assert.ErrorContains(t, err, "smtp refused")
}
