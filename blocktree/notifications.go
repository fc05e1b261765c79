// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"fmt"

	"github.com/emberchain/emberd/util/chainhash"
)

// NotificationType represents the type of a notification message.
type NotificationType int

// NotificationCallback is used for a caller to provide a callback for
// notifications about various tree events.
type NotificationCallback func(*Notification)

// Constants for the type of a notification message.
const (
	// NTBlockAdded indicates the associated block was added into the
	// block tree.
	NTBlockAdded NotificationType = iota

	// NTChainChanged indicates that the selected chain has changed, either
	// by extension or by a reorganization.
	NTChainChanged

	// NTFinalityPointChanged indicates that the finality point has moved.
	NTFinalityPointChanged
)

// notificationTypeStrings is a map of notification types back to their
// constant names for pretty printing.
var notificationTypeStrings = map[NotificationType]string{
	NTBlockAdded:           "NTBlockAdded",
	NTChainChanged:         "NTChainChanged",
	NTFinalityPointChanged: "NTFinalityPointChanged",
}

// String returns the NotificationType in human-readable form.
func (n NotificationType) String() string {
	if s, ok := notificationTypeStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Notification Type (%d)", int(n))
}

// Notification defines notification that is sent to the caller via the
// callback function provided during the call to Subscribe and consists of a
// notification type as well as associated data that depends on the type.
type Notification struct {
	Type NotificationType
	Data interface{}
}

// BlockAddedNotificationData defines data to be sent along with a
// BlockAdded notification.
type BlockAddedNotificationData struct {
	Hash   chainhash.Hash
	Height uint64
	Status Status
}

// ChainChangedNotificationData defines data to be sent along with a
// ChainChanged notification.
type ChainChangedNotificationData struct {
	OldSelectedTip chainhash.Hash
	NewSelectedTip chainhash.Hash
}

// FinalityPointChangedNotificationData defines data to be sent along with a
// FinalityPointChanged notification.
type FinalityPointChangedNotificationData struct {
	OldFinalityPoint chainhash.Hash
	NewFinalityPoint chainhash.Hash
}

// Subscribe to block tree notifications. Registers a callback to be executed
// when various events take place. See the documentation on Notification and
// NotificationType for details on the types and contents of notifications.
func (tree *BlockTree) Subscribe(callback NotificationCallback) {
	tree.notificationsLock.Lock()
	defer tree.notificationsLock.Unlock()
	tree.notifications = append(tree.notifications, callback)
}

// sendNotification sends a notification with the passed type and data if the
// caller requested notifications by providing a callback function in the call
// to Subscribe.
func (tree *BlockTree) sendNotification(typ NotificationType, data interface{}) {
	// Generate and send the notification.
	n := Notification{Type: typ, Data: data}
	tree.notificationsLock.RLock()
	for _, callback := range tree.notifications {
		callback(&n)
	}
	tree.notificationsLock.RUnlock()
}

// notifyChainChanges compares the old and new selected tip and finality point
// and sends the notifications the differences call for. It must be called
// without the tree lock held.
func (tree *BlockTree) notifyChainChanges(oldTip, newTip, oldFinality, newFinality *blockNode) {
	if oldTip != newTip {
		tree.sendNotification(NTChainChanged, &ChainChangedNotificationData{
			OldSelectedTip: oldTip.hash,
			NewSelectedTip: newTip.hash,
		})
	}
	if oldFinality != newFinality {
		tree.sendNotification(NTFinalityPointChanged, &FinalityPointChangedNotificationData{
			OldFinalityPoint: oldFinality.hash,
			NewFinalityPoint: newFinality.hash,
		})
	}
}
