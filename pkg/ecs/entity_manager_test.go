package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testVelocityComponent struct {
	VX, VY float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试ID从1开始且单调递增
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}
	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{X: 100, Y: 200})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testPositionComponent{}))
	if !found {
		t.Fatal("Component should be found")
	}
	retrieved := comp.(*testPositionComponent)
	if retrieved.X != 100 || retrieved.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", retrieved.X, retrieved.Y)
	}
}

func TestGenericGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testVelocityComponent{VX: -3})

	vel, ok := GetComponent[*testVelocityComponent](em, id)
	if !ok {
		t.Fatal("generic GetComponent should find velocity")
	}
	if vel.VX != -3 {
		t.Errorf("VX: got %v, want -3", vel.VX)
	}

	if _, ok := GetComponent[*testPositionComponent](em, id); ok {
		t.Error("entity has no position component")
	}
}

func TestDestroyEntityIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{})

	em.DestroyEntity(id)
	if !em.IsAlive(id) {
		t.Error("Entity should still exist before cleanup")
	}

	em.RemoveMarkedEntities()
	if em.IsAlive(id) {
		t.Error("Entity should be removed after cleanup")
	}
}

func TestSortedEntitiesWithKeepsCreationOrder(t *testing.T) {
	em := NewEntityManager()
	var created []EntityID
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPositionComponent{X: float64(i)})
		created = append(created, id)
	}
	// 中间删除一些实体，顺序仍应保持
	em.DestroyEntity(created[3])
	em.DestroyEntity(created[11])
	em.RemoveMarkedEntities()

	got := SortedEntitiesWith1[*testPositionComponent](em)
	if len(got) != 18 {
		t.Fatalf("expected 18 entities, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("entities not in creation order: %v", got)
		}
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	em.AddComponent(id1, &testPositionComponent{})
	em.AddComponent(id1, &testVelocityComponent{})

	id2 := em.CreateEntity()
	em.AddComponent(id2, &testPositionComponent{})

	id3 := em.CreateEntity()
	em.AddComponent(id3, &testVelocityComponent{})

	entities := em.GetEntitiesWith(
		reflect.TypeOf(&testPositionComponent{}),
		reflect.TypeOf(&testVelocityComponent{}),
	)
	if len(entities) != 1 || entities[0] != id1 {
		t.Errorf("Query should return only id1, got %v", entities)
	}

	if n := len(GetEntitiesWith1[*testPositionComponent](em)); n != 2 {
		t.Errorf("Expected 2 entities with Position component, got %d", n)
	}
}

func TestClearKeepsIDsMonotonic(t *testing.T) {
	em := NewEntityManager()
	em.CreateEntity()
	last := em.CreateEntity()

	em.Clear()
	if em.EntityCount() != 0 {
		t.Fatalf("expected no entities after Clear, got %d", em.EntityCount())
	}

	next := em.CreateEntity()
	if next <= last {
		t.Errorf("IDs must never be reused: got %d after %d", next, last)
	}
}
