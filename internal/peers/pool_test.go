package peers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/mocks"
	"github.com/feral-file/slp-indexer/internal/peers"
	"github.com/feral-file/slp-indexer/internal/providers/chain"
)

const seed = "http://seed.local:4003"

func candidate(ip string, port int) chain.PeerInfo {
	return chain.PeerInfo{IP: ip, Ports: map[string]int{chain.DefaultAPIPortKey: port}}
}

func setupPool(t *testing.T, limit int) (*mocks.MockChainClient, peers.Pool) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	return client, peers.NewPool(peers.Config{Seed: seed, Limit: limit}, client)
}

func TestPool_RefreshKeepsReachableAdvertisedPeers(t *testing.T) {
	client, pool := setupPool(t, 3)

	client.EXPECT().
		ListPeers(gomock.Any(), seed).
		Return([]chain.PeerInfo{
			candidate("10.0.0.1", 4003),
			{IP: "10.0.0.2", Ports: map[string]int{"@arkecosystem/core-p2p": 4002}},
			candidate("10.0.0.3", 4003),
			candidate("10.0.0.4", 4003),
		}, nil)
	client.EXPECT().
		NodeStatus(gomock.Any(), "http://10.0.0.1:4003").
		Return(&chain.NodeStatus{Synced: true}, nil)
	client.EXPECT().
		NodeStatus(gomock.Any(), "http://10.0.0.3:4003").
		Return(nil, errors.New("timeout"))

	require.NoError(t, pool.Refresh(context.Background()))
	assert.Equal(t, []string{"http://10.0.0.1:4003"}, pool.Peers())
}

func TestPool_RefreshFallsBackToSeed(t *testing.T) {
	client, pool := setupPool(t, 20)

	client.EXPECT().ListPeers(gomock.Any(), seed).Return(nil, nil)

	require.NoError(t, pool.Refresh(context.Background()))
	assert.Equal(t, []string{seed}, pool.Peers())
}

func TestPool_PickPrefersActivePeer(t *testing.T) {
	client, pool := setupPool(t, 20)

	client.EXPECT().
		ListPeers(gomock.Any(), seed).
		Return([]chain.PeerInfo{candidate("10.0.0.1", 4003), candidate("10.0.0.2", 4003)}, nil)
	client.EXPECT().NodeStatus(gomock.Any(), gomock.Any()).Return(&chain.NodeStatus{}, nil).Times(2)

	peer, err := pool.Pick(context.Background(), "http://10.0.0.2:4003")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:4003", peer)

	peer, err = pool.Pick(context.Background(), "http://gone:4003")
	require.NoError(t, err)
	assert.Contains(t, pool.Peers(), peer)
}

func TestPool_PickWithoutPeers(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	pool := peers.NewPool(peers.Config{}, client)

	client.EXPECT().ListPeers(gomock.Any(), "").Return(nil, errors.New("no route"))

	_, err := pool.Pick(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoPeer)
}

func TestPool_DropRefreshesWhenTooFewRemain(t *testing.T) {
	client, pool := setupPool(t, 20)

	three := []chain.PeerInfo{candidate("10.0.0.1", 4003), candidate("10.0.0.2", 4003), candidate("10.0.0.3", 4003)}
	client.EXPECT().ListPeers(gomock.Any(), seed).Return(three, nil).Times(2)
	client.EXPECT().NodeStatus(gomock.Any(), gomock.Any()).Return(&chain.NodeStatus{}, nil).Times(3)
	require.NoError(t, pool.Refresh(context.Background()))

	// two remain, no refresh
	pool.Drop(context.Background(), "http://10.0.0.1:4003")
	assert.ElementsMatch(t, []string{"http://10.0.0.2:4003", "http://10.0.0.3:4003"}, pool.Peers())

	// one remains, the listing is probed again and only the answering peer comes back
	client.EXPECT().NodeStatus(gomock.Any(), "http://10.0.0.1:4003").Return(nil, errors.New("down"))
	client.EXPECT().NodeStatus(gomock.Any(), "http://10.0.0.2:4003").Return(nil, errors.New("down"))
	client.EXPECT().NodeStatus(gomock.Any(), "http://10.0.0.3:4003").Return(&chain.NodeStatus{}, nil)
	pool.Drop(context.Background(), "http://10.0.0.2:4003")
	assert.Equal(t, []string{"http://10.0.0.3:4003"}, pool.Peers())
}
