// Package ropegame 跳绳游戏演示
//
// 跳绳每转一圈提示一次起跳，玩家按回车起跳，在空中停留一段时间后落地。
// 跳绳经过时玩家不在空中则游戏结束。
//
// 分发器不是并发安全的，因此跳绳、落地定时器和输入读取都不直接访问分发器，
// 而是把闭包发送给唯一的事件循环 goroutine 执行。
package ropegame

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/pparuzel/courier"
	"github.com/pparuzel/courier/pkg/lib/log"
)

var logger = log.Logger("demo/ropegame")

// 默认时长
const (
	DefaultRopeCycle = 2600 * time.Millisecond
	DefaultAirTime   = 2200 * time.Millisecond
)

// ============================================================================
// 事件
// ============================================================================

// JumpEvent 玩家起跳
type JumpEvent struct{}

// InAirEvent 玩家在空中
type InAirEvent struct {
	TimeBeforeLanding time.Duration
}

// RopeIsNearEvent 跳绳到达，玩家必须在空中
type RopeIsNearEvent struct{}

// GameOverEvent 游戏结束
type GameOverEvent struct {
	Reason string
}

// Events 游戏使用的事件类型
func Events() []courier.EventType {
	return []courier.EventType{
		courier.TypeOf[JumpEvent](),
		courier.TypeOf[InAirEvent](),
		courier.TypeOf[RopeIsNearEvent](),
		courier.TypeOf[GameOverEvent](),
	}
}

// ============================================================================
// 配置
// ============================================================================

// Config 游戏配置
type Config struct {
	// In 玩家输入，每行一次操作
	In io.Reader
	// Out 游戏输出
	Out io.Writer
	// Clock 时钟，nil 使用系统时钟
	Clock clock.Clock

	// RopeCycle 跳绳转一圈的时间
	RopeCycle time.Duration
	// AirTime 起跳到落地的时间
	AirTime time.Duration

	// Options 追加的分发器选项
	Options []courier.Option
}

// ============================================================================
// Game
// ============================================================================

// Game 跳绳游戏
type Game struct {
	d      *courier.Dispatcher
	clk    clock.Clock
	in     io.Reader
	out    io.Writer
	player *Player

	halfCycle time.Duration
	ticker    *clock.Ticker

	// loop 发往事件循环的闭包
	loop chan func()
	// done 游戏结束时关闭
	done     chan struct{}
	stopOnce sync.Once
	over     bool
}

// New 创建游戏
func New(cfg Config) (*Game, error) {
	if cfg.In == nil || cfg.Out == nil {
		return nil, fmt.Errorf("ropegame: input and output are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.RopeCycle <= 0 {
		cfg.RopeCycle = DefaultRopeCycle
	}
	if cfg.AirTime <= 0 {
		cfg.AirTime = DefaultAirTime
	}

	d, err := courier.New(append([]courier.Option{
		courier.WithEvents(Events()...),
		courier.WithName("ropegame"),
	}, cfg.Options...)...)
	if err != nil {
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}

	g := &Game{
		d:         d,
		clk:       cfg.Clock,
		in:        cfg.In,
		out:       cfg.Out,
		halfCycle: cfg.RopeCycle / 2,
		loop:      make(chan func()),
		done:      make(chan struct{}),
	}
	g.ticker = g.clk.Ticker(g.halfCycle)
	g.player = newPlayer(g, cfg.AirTime)

	courier.MustAdd(d, func(e *GameOverEvent) {
		fmt.Fprint(g.out, "> GAME OVER")
		if e.Reason != "" {
			fmt.Fprint(g.out, ": ", e.Reason)
		}
		fmt.Fprintln(g.out)
		g.over = true
		g.stop()
	})
	return g, nil
}

// Dispatcher 返回游戏的分发器
func (g *Game) Dispatcher() *courier.Dispatcher {
	return g.d
}

// Run 运行游戏直到结束或 ctx 取消
//
// 正常结束返回 nil，ctx 取消时返回 ctx.Err()。
func (g *Game) Run(ctx context.Context) error {
	defer g.ticker.Stop()
	defer g.player.stopLanding()
	defer g.stop()

	fmt.Fprintln(g.out, "Game of jumping over a skipping rope")
	fmt.Fprintln(g.out, "\tTo make a regular jump, hit ENTER")
	fmt.Fprintln(g.out, "\tor type `q`, `quit` or hit Ctrl-C to exit")
	fmt.Fprintln(g.out, "START! Skip over the skipping rope!")

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return g.eventLoop(ctx) })
	eg.Go(func() error { return g.roll(ctx) })

	// 读取输入会一直阻塞，不能被取消，因此不受 errgroup 管理
	go g.readInput()

	err := eg.Wait()
	logger.Debug("游戏结束", "listeners", g.d.Size(), "err", err)
	return err
}

// eventLoop 依次执行发来的闭包，是唯一访问分发器的 goroutine
func (g *Game) eventLoop(ctx context.Context) error {
	for {
		select {
		case fn := <-g.loop:
			fn()
			if g.over {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// roll 跳绳：前半圈提示起跳，后半圈到达玩家
func (g *Game) roll(ctx context.Context) error {
	half := 0
	for {
		select {
		case <-g.ticker.C:
			half++
			if half%2 == 1 {
				g.send(func() { fmt.Fprintln(g.out, "JUMP NOW!") })
			} else {
				g.send(func() { courier.Post(g.d, &RopeIsNearEvent{}) })
			}
		case <-g.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// readInput 逐行读取输入，输入结束视为退出
func (g *Game) readInput() {
	sc := bufio.NewScanner(g.in)
	for sc.Scan() {
		line := sc.Text()
		if !g.send(func() { g.player.handleInput(line) }) {
			return
		}
	}
	g.send(func() { g.player.handleInput("q") })
}

// send 将闭包交给事件循环，游戏已结束时返回 false
func (g *Game) send(fn func()) bool {
	select {
	case g.loop <- fn:
		return true
	case <-g.done:
		return false
	}
}

// stop 结束游戏，可重复调用
func (g *Game) stop() {
	g.stopOnce.Do(func() { close(g.done) })
}

// ============================================================================
// Player
// ============================================================================

// Player 玩家，只在事件循环中访问
type Player struct {
	g       *Game
	airTime time.Duration
	inAir   bool
	// landing 尚未触发的落地定时器
	landing *clock.Timer
}

func newPlayer(g *Game, airTime time.Duration) *Player {
	p := &Player{g: g, airTime: airTime}
	courier.MustAdd(g.d, func(e *InAirEvent) {
		p.stopLanding()
		p.landing = g.clk.AfterFunc(e.TimeBeforeLanding, func() {
			g.send(p.land)
		})
	})
	courier.MustAdd(g.d, func(*RopeIsNearEvent) {
		if !p.inAir {
			courier.Post(g.d, &GameOverEvent{Reason: "Player has not jumped :("})
		}
	})
	if _, err := courier.AddMethod(g.d, p, (*Player).Jump); err != nil {
		panic(err)
	}
	return p
}

// Jump 处理 JumpEvent
func (p *Player) Jump(*JumpEvent) {
	fmt.Fprintln(p.g.out, "<JUMPED>")
	p.inAir = true
	courier.Post(p.g.d, &InAirEvent{TimeBeforeLanding: p.airTime})
}

// InAir 玩家是否在空中
func (p *Player) InAir() bool {
	return p.inAir
}

func (p *Player) land() {
	fmt.Fprintln(p.g.out, "<LANDED>")
	p.inAir = false
	p.landing = nil
}

// stopLanding 停止尚未触发的落地定时器，返回是否停止了定时器
func (p *Player) stopLanding() bool {
	if p.landing == nil {
		return false
	}
	stopped := p.landing.Stop()
	p.landing = nil
	return stopped
}

// handleInput 空行起跳，q 或 quit 退出，其他输入忽略
func (p *Player) handleInput(line string) {
	switch strings.TrimSpace(line) {
	case "":
		if !p.inAir {
			courier.Post(p.g.d, &JumpEvent{})
		}
	case "q", "quit":
		courier.Post(p.g.d, &GameOverEvent{Reason: "Player has quit"})
	}
}
