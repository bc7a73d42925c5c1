package sqlinline

// Repair statements run by the reconciler worker. All of them are
// idempotent: notification repair dedupes on dedupe_key and aggregate repair
// writes the recomputed value, so concurrent workers cannot double-apply.

const QRepairRegistrationNotifications = `--sql 7d2e4f18-9a3c-4b56-8f1d-2c5e9a70b341
with missing as (
    select r.id, r.volunteer_id, e.title
    from registrations r
    join events e on e.id = r.event_id
    where r.status in ('confirmed', 'attended')
      and not exists (
          select 1 from notifications n
          where n.dedupe_key = 'registration:' || r.id
      )
)
insert into notifications (id, user_id, title, message, type, related_id, dedupe_key)
select gen_random_uuid(),
       m.volunteer_id,
       'Registration confirmed',
       'You are confirmed for ' || m.title || '.',
       'registration',
       m.id,
       'registration:' || m.id
from missing m
on conflict (dedupe_key) do nothing;
`

const QRepairHoursNotifications = `--sql b61a8c02-4e5d-4f77-a3b9-0d84c2e6f913
with missing as (
    select h.id, h.volunteer_id, h.hours, e.title
    from volunteer_hours h
    join events e on e.id = h.event_id
    where not exists (
        select 1 from notifications n
        where n.dedupe_key = 'hours:' || h.id
    )
)
insert into notifications (id, user_id, title, message, type, related_id, dedupe_key)
select gen_random_uuid(),
       m.volunteer_id,
       'Hours logged',
       'Logged ' || trim(trailing '.' from trim(trailing '0' from m.hours::text)) || ' hours for ' || m.title || '.',
       'hours',
       m.id,
       'hours:' || m.id
from missing m
on conflict (dedupe_key) do nothing;
`

const QAggregateDrift = `--sql 1c94d7e5-03b2-4a68-bd21-7f6a5e38c0d2
select p.id,
       p.events_joined,
       coalesce(r.cnt, 0)    as actual_events,
       p.hours_volunteered,
       coalesce(h.total, 0)  as actual_hours
from profiles p
left join (
    select volunteer_id, count(*) as cnt
    from registrations
    where status in ('confirmed', 'attended')
    group by volunteer_id
) r on r.volunteer_id = p.id
left join (
    select volunteer_id, sum(hours) as total
    from volunteer_hours
    group by volunteer_id
) h on h.volunteer_id = p.id
where p.role = 'volunteer'
  and (p.events_joined <> coalesce(r.cnt, 0)
       or p.hours_volunteered <> coalesce(h.total, 0));
`

const QProfileAggregates = `--sql 4a7e2d90-8c1b-4f35-b6a2-91d3e5c70f48
select events_joined, hours_volunteered
from profiles
where id = $1::uuid;
`

const QUnionBadges = `--sql 0f2b6a84-3d5e-4c19-8b7f-a6e1d4092c53
update profiles
set badges = (
        select coalesce(array_agg(distinct b order by b), '{}')
        from unnest(badges || $2::text[]) as b
    ),
    updated_at = now()
where id = $1::uuid;
`

const QRepairAggregate = `--sql e8305fb9-6d14-4c2a-9e87-35b1d0a4c6f7
update profiles p
set events_joined = coalesce((
        select count(*) from registrations
        where volunteer_id = p.id and status in ('confirmed', 'attended')
    ), 0),
    hours_volunteered = coalesce((
        select sum(hours) from volunteer_hours
        where volunteer_id = p.id
    ), 0),
    updated_at = now()
where p.id = $1::uuid;
`
