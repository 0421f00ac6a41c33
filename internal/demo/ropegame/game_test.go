package ropegame

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pparuzel/courier"
)

const (
	testCycle = 2 * time.Second
	testAir   = 1500 * time.Millisecond
)

func newTestGame(t *testing.T, in io.Reader) (*Game, *clock.Mock, *bytes.Buffer) {
	t.Helper()
	mock := clock.NewMock()
	var out bytes.Buffer
	g, err := New(Config{
		In:        in,
		Out:       &out,
		Clock:     mock,
		RopeCycle: testCycle,
		AirTime:   testAir,
		Options:   []courier.Option{courier.WithoutDiagnostics()},
	})
	require.NoError(t, err)
	return g, mock, &out
}

// runUntilDone 运行游戏，期间不断推进时钟，直到 Run 返回
func runUntilDone(t *testing.T, g *Game, mock *clock.Mock, step time.Duration) error {
	t.Helper()
	result := make(chan error, 1)
	go func() { result <- g.Run(context.Background()) }()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-result:
			return err
		case <-deadline:
			t.Fatal("game did not finish")
			return nil
		case <-time.After(time.Millisecond):
			if step > 0 {
				mock.Add(step)
			}
		}
	}
}

// ============================================================================
// 完整游戏
// ============================================================================

// TestRun_Quit 测试玩家退出
func TestRun_Quit(t *testing.T) {
	g, mock, out := newTestGame(t, strings.NewReader("q\n"))

	require.NoError(t, runUntilDone(t, g, mock, 0))
	assert.Contains(t, out.String(), "START! Skip over the skipping rope!")
	assert.True(t, strings.HasSuffix(out.String(), "> GAME OVER: Player has quit\n"), out.String())
}

// TestRun_InputClosed 测试输入结束视为退出
func TestRun_InputClosed(t *testing.T) {
	g, mock, out := newTestGame(t, strings.NewReader(""))

	require.NoError(t, runUntilDone(t, g, mock, 0))
	assert.Contains(t, out.String(), "> GAME OVER: Player has quit")
}

// TestRun_MissedJump 测试跳绳到达时未起跳
func TestRun_MissedJump(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	g, mock, out := newTestGame(t, in)

	require.NoError(t, runUntilDone(t, g, mock, testCycle/2))
	assert.Contains(t, out.String(), "JUMP NOW!")
	assert.True(t, strings.HasSuffix(out.String(), "> GAME OVER: Player has not jumped :(\n"), out.String())
}

// TestRun_Cancel 测试取消
func TestRun_Cancel(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	g, _, _ := newTestGame(t, in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx), context.Canceled)
}

// ============================================================================
// 事件处理
// ============================================================================

// TestPlayer_JumpAndLand 测试起跳后按时落地
func TestPlayer_JumpAndLand(t *testing.T) {
	g, mock, out := newTestGame(t, strings.NewReader(""))
	p := g.player

	p.handleInput("")
	assert.True(t, p.InAir())
	assert.Contains(t, out.String(), "<JUMPED>")

	// 空中再次输入不会重复起跳
	p.handleInput("")
	assert.Equal(t, 1, strings.Count(out.String(), "<JUMPED>"))

	// 跳绳到达时在空中，游戏继续
	courier.Post(g.d, &RopeIsNearEvent{})
	assert.False(t, g.over)

	go mock.Add(testAir)
	select {
	case fn := <-g.loop:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("landing timer did not fire")
	}
	assert.False(t, p.InAir())
	assert.Contains(t, out.String(), "<LANDED>")
}

// TestPlayer_RopeHits 测试不在空中时游戏结束
func TestPlayer_RopeHits(t *testing.T) {
	g, _, out := newTestGame(t, strings.NewReader(""))

	courier.Post(g.d, &RopeIsNearEvent{})
	assert.True(t, g.over)
	assert.Contains(t, out.String(), "> GAME OVER: Player has not jumped :(")
	assert.False(t, g.send(func() {}))
}

// TestPlayer_IgnoresOtherInput 测试其他输入被忽略
func TestPlayer_IgnoresOtherInput(t *testing.T) {
	g, _, out := newTestGame(t, strings.NewReader(""))

	g.player.handleInput("hello")
	assert.False(t, g.player.InAir())
	assert.False(t, g.over)
	assert.Empty(t, out.String())
}

// TestGameOver_EmptyReason 测试无原因的结束行
func TestGameOver_EmptyReason(t *testing.T) {
	g, _, out := newTestGame(t, strings.NewReader(""))

	courier.Post(g.d, &GameOverEvent{})
	assert.Equal(t, "> GAME OVER\n", out.String())
}

// TestNew_Defaults 测试默认配置
func TestNew_Defaults(t *testing.T) {
	g, err := New(Config{In: strings.NewReader(""), Out: io.Discard})
	require.NoError(t, err)
	defer g.ticker.Stop()
	assert.Equal(t, DefaultRopeCycle/2, g.halfCycle)
	assert.Equal(t, DefaultAirTime, g.player.airTime)
	assert.Equal(t, 4, len(g.Dispatcher().EventTypes()))

	_, err = New(Config{Out: io.Discard})
	assert.Error(t, err)
}

// TestPlayer_StopLanding 测试游戏结束时停止落地定时器
func TestPlayer_StopLanding(t *testing.T) {
	g, mock, out := newTestGame(t, strings.NewReader(""))
	p := g.player

	p.handleInput("")
	require.True(t, p.InAir())
	require.NotNil(t, p.landing)

	assert.True(t, p.stopLanding())
	assert.Nil(t, p.landing)
	assert.False(t, p.stopLanding())

	// 停止后推进时钟不会再落地
	go mock.Add(testAir)
	select {
	case <-g.loop:
		t.Fatal("stopped landing timer fired")
	case <-time.After(50 * time.Millisecond):
	}
	assert.True(t, p.InAir())
	assert.NotContains(t, out.String(), "<LANDED>")
}

// TestRun_StopsPendingLanding 测试起跳后退出时定时器被停止
func TestRun_StopsPendingLanding(t *testing.T) {
	g, mock, out := newTestGame(t, strings.NewReader("\nq\n"))

	require.NoError(t, runUntilDone(t, g, mock, 0))
	assert.Contains(t, out.String(), "<JUMPED>")
	assert.Contains(t, out.String(), "> GAME OVER: Player has quit")
	assert.Nil(t, g.player.landing)
}
