// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"fmt"

	"github.com/taibuivan/riddlerush/internal/notify"
	"github.com/taibuivan/riddlerush/internal/platform/apperr"
)

const genericFailure = "Something went wrong. Please try again."

// CampaignCreated is the notice after a campaign is created.
func CampaignCreated(name string) notify.Notification {
	return notify.Success("Campaign created successfully",
		fmt.Sprintf("\"%s\" has been created and is ready for questions.", name))
}

// RiddleSaved is the notice after a riddle is created or updated.
func RiddleSaved(created bool) notify.Notification {
	if created {
		return notify.Success("Riddle created", "The riddle has been added to the campaign.")
	}
	return notify.Success("Riddle updated", "Your changes have been saved.")
}

// RiddleDeleted is the notice after a riddle is removed.
func RiddleDeleted() notify.Notification {
	return notify.Success("Riddle deleted", "The riddle has been removed from the campaign.")
}

// Failed is the notice after a failed mutation. Only application errors
// carry a message meant for the administrator.
func Failed(title string, err error) notify.Notification {
	ae := apperr.As(err)
	if ae == nil || (ae.HTTPStatus >= 500 && ae.Code != apperr.CodeUpstream) {
		return notify.Failure(title, genericFailure)
	}
	if len(ae.Details) > 0 {
		return notify.Failure(title, ae.Details[0].Message)
	}
	return notify.Failure(title, ae.Message)
}
