package swap

import "github.com/erazemk/rewear/internal/model"

// PointsPolicy decides how completing a swap changes the participants'
// point balances. Deltas are applied in the completing transaction.
type PointsPolicy interface {
	OnComplete(s *model.Swap, proposerItem, receiverItem *model.Item) (proposerDelta, receiverDelta int)
}

// ItemForItem is the default policy: an item-for-item exchange moves no points.
type ItemForItem struct{}

// OnComplete implements PointsPolicy.
func (ItemForItem) OnComplete(*model.Swap, *model.Item, *model.Item) (int, int) {
	return 0, 0
}

// PointsPolicyFunc adapts a function to PointsPolicy.
type PointsPolicyFunc func(s *model.Swap, proposerItem, receiverItem *model.Item) (int, int)

// OnComplete implements PointsPolicy.
func (f PointsPolicyFunc) OnComplete(s *model.Swap, proposerItem, receiverItem *model.Item) (int, int) {
	return f(s, proposerItem, receiverItem)
}
