package collision

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pparuzel/courier"
)

// TestRun 测试演示输出
func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(&out, courier.WithDiagnostics(&out)))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Detected collision of atoms:", lines[0])
	assert.Equal(t, "\t first atom: (130, 150)", lines[1])
	assert.Equal(t, "\tsecond atom: (120, 160)", lines[2])
	assert.Equal(t, "Boom! Explosion at (125, 155) with 1.5625e+08 newtons of force", lines[3])
	assert.Equal(t, "The whole humanity is being wiped out due to a large blast", lines[4])
	assert.Equal(t, "Earth is destroyed as well", lines[5])
	assert.True(t, strings.HasPrefix(lines[6], "warning: a used type is not specified"), lines[6])
	assert.Contains(t, lines[6], "collision.Vec2")
}

// TestWorld_Wipeout 测试世界耐久度
func TestWorld_Wipeout(t *testing.T) {
	var out bytes.Buffer
	w := &World{DurabilityRate: 1.5, out: &out}

	w.Wipeout(&WipeoutEvent{DestructionRate: 0.5})
	assert.NotContains(t, out.String(), "Earth")

	w.Wipeout(&WipeoutEvent{DestructionRate: 2})
	assert.Contains(t, out.String(), "Earth is destroyed as well")
}

// TestOnAtomCollision_SmallBlast 测试小爆炸不触发抹除
func TestOnAtomCollision_SmallBlast(t *testing.T) {
	d := courier.MustNew(courier.WithEvents(Events()...), courier.WithoutDiagnostics())
	explosions, wipeouts := 0, 0
	courier.MustAdd(d, func(*ExplosionEvent) { explosions++ })
	courier.MustAdd(d, func(*WipeoutEvent) { wipeouts++ })

	var out bytes.Buffer
	onAtomCollision(&out, d, &AtomCollision{
		First:  Atom{Position: Vec2{0, 0}, Radius: 1},
		Second: Atom{Position: Vec2{2, 2}, Radius: 2},
	})
	assert.Equal(t, 1, explosions)
	assert.Equal(t, 0, wipeouts)
}

// TestVec2_String 测试坐标格式
func TestVec2_String(t *testing.T) {
	assert.Equal(t, "(1.5, -2)", Vec2{1.5, -2}.String())
}
